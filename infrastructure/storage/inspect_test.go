package storage

import (
	"encoding/json"
	"testing"

	"justus/domain/chat"

	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	mustJSON := func(v any) []byte {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return data
	}
	user := chat.User{ID: "u1", Username: "alice", DisplayName: "Alice", PasswordHash: "$argon2id$secret"}
	message := chat.Message{ID: "m1", SenderID: "alice", ReceiverID: "bob", Type: chat.TextType, Content: "hi"}

	tests := []struct {
		name       string
		key        string
		val        []byte
		wantType   string
		wantDetail string
	}{
		{"user hides hash", string(userKey("u1")), mustJSON(user), "USER", "alice (Alice)"},
		{"conversation", string(convKey("c1")), mustJSON(chat.Conversation{ID: "c1", Key: "alice:bob"}), "CONVERSATION", "alice:bob"},
		{"message", string(messageKey("m1")), mustJSON(message), "MESSAGE", "[text] alice -> bob: hi"},
		{"blob", string(mediaBlobKey("f1")), []byte{1, 2, 3}, "BLOB", "3 bytes"},
		{"index", msgConvPrefix + "c1:0000000000000000001:m1", []byte("m1"), "INDEX", "m1"},
		{"lookup", string(userNameKey("alice")), []byte("u1"), "LOOKUP", "u1"},
		{"broken", string(messageKey("m2")), []byte("{"), "MESSAGE", "Error: unmarshal failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotDetail := Describe(tt.key, tt.val)
			require.Equal(t, tt.wantType, gotType)
			require.Equal(t, tt.wantDetail, gotDetail)
			require.NotContains(t, gotDetail, "argon2id")
		})
	}
}

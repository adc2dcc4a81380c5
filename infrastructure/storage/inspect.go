package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"justus/domain/chat"

	"github.com/mama165/sdk-go/database"
)

// InspectMapper renders one badger entry for the debug inspector. Secondary
// index entries keep the default rendering, password hashes are never shown.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	row.Type, row.Detail = Describe(key, val)
	return row
}

// Describe names the kind of a stored entry and summarizes its value.
func Describe(key string, val []byte) (string, string) {
	switch {
	case strings.HasPrefix(key, userIDPrefix):
		var u chat.User
		if err := json.Unmarshal(val, &u); err != nil {
			return "USER", "Error: unmarshal failed"
		}
		return "USER", fmt.Sprintf("%s (%s)", u.Username, u.DisplayName)
	case strings.HasPrefix(key, convIDPrefix):
		var c chat.Conversation
		if err := json.Unmarshal(val, &c); err != nil {
			return "CONVERSATION", "Error: unmarshal failed"
		}
		return "CONVERSATION", c.Key
	case strings.HasPrefix(key, msgIDPrefix):
		var m chat.Message
		if err := json.Unmarshal(val, &m); err != nil {
			return "MESSAGE", "Error: unmarshal failed"
		}
		return "MESSAGE", fmt.Sprintf("[%s] %s -> %s: %s", m.Type, m.SenderID, m.ReceiverID, m.Content)
	case strings.HasPrefix(key, mediaMetaPrefix):
		var m chat.Media
		if err := json.Unmarshal(val, &m); err != nil {
			return "MEDIA", "Error: unmarshal failed"
		}
		return "MEDIA", fmt.Sprintf("%s %s %d bytes", m.Filename, m.ContentType, m.Size)
	case strings.HasPrefix(key, mediaBlobPrefix):
		return "BLOB", fmt.Sprintf("%d bytes", len(val))
	case strings.HasPrefix(key, "msg:"):
		return "INDEX", string(val)
	case strings.HasPrefix(key, "user:") || strings.HasPrefix(key, "conv:"):
		return "LOOKUP", string(val)
	}
	return "UNKNOWN", ""
}

package chat

import (
	"fmt"
	"strings"

	"justus/errors"
)

// KeySeparator joins the two participant identifiers of a canonical key.
const KeySeparator = ":"

// Conversation is the unique two-party thread between participantA and participantB.
// Key is order independent so (a, b) and (b, a) resolve to the same record.
type Conversation struct {
	ID           string `json:"id"`
	ParticipantA string `json:"participantA"`
	ParticipantB string `json:"participantB"`
	Key          string `json:"key"`
}

// CanonicalKey returns the lexicographically smaller identifier, the separator,
// then the larger one.
func CanonicalKey(userA, userB string) string {
	if strings.Compare(userA, userB) <= 0 {
		return userA + KeySeparator + userB
	}
	return userB + KeySeparator + userA
}

// NewConversation validates the pair and builds an unsaved conversation.
func NewConversation(id, userA, userB string) (Conversation, error) {
	if err := ValidatePair(userA, userB); err != nil {
		return Conversation{}, err
	}
	return Conversation{
		ID:           id,
		ParticipantA: userA,
		ParticipantB: userB,
		Key:          CanonicalKey(userA, userB),
	}, nil
}

// ValidatePair rejects empty identifiers and self-conversations.
func ValidatePair(userA, userB string) error {
	if strings.TrimSpace(userA) == "" || strings.TrimSpace(userB) == "" {
		return fmt.Errorf("%w: participant identifier is empty", errors.ErrInvalidParticipant)
	}
	if userA == userB {
		return fmt.Errorf("%w: a conversation needs two distinct participants", errors.ErrInvalidParticipant)
	}
	return nil
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.ParticipantA == userID || c.ParticipantB == userID)
}

// Other returns the counterpart of userID, or "" when userID is not a participant.
func (c Conversation) Other(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	default:
		return ""
	}
}

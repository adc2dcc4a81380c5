package chat

import (
	"fmt"
	"strings"
	"time"

	"justus/errors"
)

type MessageType string

const (
	TextType  MessageType = "text"
	ImageType MessageType = "image"
	AudioType MessageType = "audio"
)

func (t MessageType) Valid() bool {
	switch t {
	case TextType, ImageType, AudioType:
		return true
	default:
		return false
	}
}

// Message is a persisted chat message.
// SenderID, ConversationID and Timestamp never change once stored.
// Edited, Deleted, Delivered and Read only ever go from false to true.
type Message struct {
	ID             string      `json:"id"`
	SenderID       string      `json:"senderId"`
	ReceiverID     string      `json:"receiverId,omitempty"`
	ConversationID string      `json:"conversationId"`
	Type           MessageType `json:"type"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
	Edited         bool        `json:"edited"`
	EditedAt       *time.Time  `json:"editedAt,omitempty"`
	Deleted        bool        `json:"deleted"`
	Delivered      bool        `json:"delivered"`
	DeliveredAt    *time.Time  `json:"deliveredAt,omitempty"`
	Read           bool        `json:"read"`
	ReadAt         *time.Time  `json:"readAt,omitempty"`

	// DeliveryTracked is false on records written before delivery tracking
	// existed, whose delivered flag means nothing.
	DeliveryTracked bool `json:"deliveryTracked,omitempty"`
}

// Draft is an outgoing message before a conversation has been attached.
type Draft struct {
	SenderID       string
	ReceiverID     string
	ConversationID string
	Type           MessageType
	Content        string
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.SenderID) == "" {
		return fmt.Errorf("%w: sender is required", errors.ErrValidation)
	}
	if d.ReceiverID == "" && d.ConversationID == "" {
		return fmt.Errorf("%w: receiverId or conversationId is required", errors.ErrValidation)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unsupported message type %q", errors.ErrValidation, d.Type)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: content is required", errors.ErrValidation)
	}
	return nil
}

// MarkDelivered is a no-op when the message is already delivered.
func (m *Message) MarkDelivered(at time.Time) bool {
	if m.Delivered {
		return false
	}
	m.Delivered = true
	m.DeliveredAt = &at
	return true
}

// MarkRead implies delivery. It is a no-op when already read.
func (m *Message) MarkRead(at time.Time) bool {
	if m.Read {
		return false
	}
	m.MarkDelivered(at)
	m.Read = true
	m.ReadAt = &at
	return true
}

// Edit replaces the content and stamps the edit time.
func (m *Message) Edit(content string, at time.Time) {
	m.Content = content
	m.Edited = true
	m.EditedAt = &at
}

// MarkDeleted is a soft delete: content is kept.
func (m *Message) MarkDeleted() bool {
	if m.Deleted {
		return false
	}
	m.Deleted = true
	return true
}

func (m Message) IsAddressedTo(userID string) bool {
	return userID != "" && m.ReceiverID == userID
}

package chat

import "time"

// MessageView is the read-only projection pushed to clients.
// It is never persisted.
type MessageView struct {
	ID                string      `json:"id"`
	SenderID          string      `json:"senderId"`
	SenderUsername    string      `json:"senderUsername,omitempty"`
	SenderDisplayName string      `json:"senderDisplayName,omitempty"`
	ReceiverID        string      `json:"receiverId,omitempty"`
	ConversationID    string      `json:"conversationId"`
	Type              MessageType `json:"type"`
	Content           string      `json:"content"`
	Timestamp         time.Time   `json:"timestamp"`
	Edited            bool        `json:"edited"`
	EditedAt          *time.Time  `json:"editedAt,omitempty"`
	Deleted           bool        `json:"deleted"`
	Delivered         bool        `json:"delivered"`
	DeliveredAt       *time.Time  `json:"deliveredAt,omitempty"`
	Read              bool        `json:"read"`
	ReadAt            *time.Time  `json:"readAt,omitempty"`
}

// NewView projects a stored message. Records written before delivery tracking
// existed are reported as delivered at their timestamp. sender may be nil when
// the account is unknown.
func NewView(m Message, sender *User, now time.Time) MessageView {
	v := MessageView{
		ID:             m.ID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		ConversationID: m.ConversationID,
		Type:           m.Type,
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Edited:         m.Edited,
		EditedAt:       m.EditedAt,
		Deleted:        m.Deleted,
		Delivered:      m.Delivered,
		DeliveredAt:    m.DeliveredAt,
		Read:           m.Read,
		ReadAt:         m.ReadAt,
	}
	if m.ID != "" && !m.DeliveryTracked && !v.Delivered {
		at := m.Timestamp
		if at.IsZero() {
			at = now
		}
		v.Delivered = true
		v.DeliveredAt = &at
	}
	if sender != nil {
		v.SenderUsername = sender.Username
		v.SenderDisplayName = sender.DisplayName
	}
	return v
}

// Package event defines what the hub pushes to connected clients.
package event

import (
	"strings"
	"time"

	"justus/domain/chat"
)

const (
	TopicEdited  = "messages.edited"
	TopicDeleted = "messages.deleted"
	// TopicErrors is never shared: the socket layer writes it straight to the
	// offending connection.
	TopicErrors = "errors"

	userTopicPrefix = "user/"
)

// UserTopic is the private topic of one identity.
func UserTopic(userID string) string {
	return userTopicPrefix + userID
}

// TopicOwner returns the identity owning a user topic.
func TopicOwner(topic string) (string, bool) {
	if !strings.HasPrefix(topic, userTopicPrefix) {
		return "", false
	}
	owner := strings.TrimPrefix(topic, userTopicPrefix)
	return owner, owner != ""
}

func IsGlobalTopic(topic string) bool {
	return topic == TopicEdited || topic == TopicDeleted
}

type Type string

const (
	MessageRead      Type = "MESSAGE_READ"
	MessageDelivered Type = "MESSAGE_DELIVERED"
	MessageEdited    Type = "MESSAGE_EDITED"
	MessageDeleted   Type = "MESSAGE_DELETED"
	Typing           Type = "TYPING"
	Error            Type = "ERROR"
)

// Event is the envelope used for every notification that is not a bare
// MessageView (a newly sent message travels as the view itself).
type Event struct {
	Type       Type              `json:"type"`
	Message    *chat.MessageView `json:"message,omitempty"`
	User       string            `json:"user,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	RetryAfter int               `json:"retryAfter,omitempty"`
}

func NewMessageEvent(t Type, view chat.MessageView) Event {
	return Event{Type: t, Message: &view}
}

// Delivery is one publication on one topic.
type Delivery struct {
	Topic   string
	Payload any
	At      time.Time
}

// Connected is emitted when an identity gets its first live subscription.
type Connected struct {
	UserID string
	At     time.Time
}

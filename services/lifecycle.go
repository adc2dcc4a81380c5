//go:generate go run go.uber.org/mock/mockgen -source=lifecycle.go -destination=../mocks/mock_lifecycle.go -package=mocks
package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"justus/domain/chat"
	"justus/errors"
	"justus/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageLifecycle interface {
	Send(cmd chat.SendCommand) (chat.Message, error)
	Edit(cmd chat.EditCommand) (chat.Message, error)
	MarkDeleted(cmd chat.DeleteCommand) (chat.Message, bool, error)
	MarkReadConversation(conversationID, receiverID string) ([]chat.Message, error)
	MarkReadMessage(cmd chat.ReadMessageCommand) (chat.Message, bool, error)
	MarkDeliveredTo(receiverID string) ([]chat.Message, error)
	ToView(msg chat.Message) (chat.MessageView, error)
	ToViews(messages []chat.Message) ([]chat.MessageView, error)
}

// MessageLifecycle owns the state machine of a message:
// Created -> Delivered -> Read, with Edited and Deleted orthogonal.
// Every transition goes through an atomic single message update.
type MessageLifecycle struct {
	log           *slog.Logger
	messages      storage.IMessageRepository
	conversations storage.IConversationRepository
	users         storage.IUserRepository
	resolver      IConversationResolver
	now           func() time.Time
	newID         func() string
}

func NewMessageLifecycle(
	log *slog.Logger,
	messages storage.IMessageRepository,
	conversations storage.IConversationRepository,
	users storage.IUserRepository,
	resolver IConversationResolver,
) *MessageLifecycle {
	return &MessageLifecycle{
		log:           log,
		messages:      messages,
		conversations: conversations,
		users:         users,
		resolver:      resolver,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

// Send attaches the draft to its conversation, resolving it from the
// receiver when only a receiver is given, and persists it. A send over the
// persistent channel counts as delivered.
func (l *MessageLifecycle) Send(cmd chat.SendCommand) (chat.Message, error) {
	draft := cmd.Draft
	if err := draft.Validate(); err != nil {
		return chat.Message{}, err
	}
	conv, err := l.conversationOf(draft)
	if err != nil {
		return chat.Message{}, err
	}

	now := l.now()
	m := chat.Message{
		ID:              l.newID(),
		SenderID:        draft.SenderID,
		ReceiverID:      conv.Other(draft.SenderID),
		ConversationID:  conv.ID,
		Type:            draft.Type,
		Content:         draft.Content,
		Timestamp:       now,
		DeliveryTracked: true,
	}
	if cmd.Channel == chat.SocketChannel {
		m.MarkDelivered(now)
	}
	if err = l.messages.SaveMessage(m); err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (l *MessageLifecycle) conversationOf(draft chat.Draft) (chat.Conversation, error) {
	if draft.ConversationID == "" {
		return l.resolver.Resolve(draft.SenderID, draft.ReceiverID)
	}
	conv, err := l.conversations.GetConversation(draft.ConversationID)
	if err != nil {
		return chat.Conversation{}, err
	}
	// A sender outside the conversation learns nothing about it
	if !conv.HasParticipant(draft.SenderID) {
		return chat.Conversation{}, fmt.Errorf("conversation %s: %w", draft.ConversationID, errors.ErrNotFound)
	}
	if draft.ReceiverID != "" && conv.Other(draft.SenderID) != draft.ReceiverID {
		return chat.Conversation{}, fmt.Errorf("%w: receiverId does not belong to the conversation", errors.ErrValidation)
	}
	return conv, nil
}

// Edit replaces the content of a message its caller sent.
func (l *MessageLifecycle) Edit(cmd chat.EditCommand) (chat.Message, error) {
	if strings.TrimSpace(cmd.Content) == "" {
		return chat.Message{}, fmt.Errorf("%w: content is required", errors.ErrValidation)
	}
	m, _, err := l.messages.UpdateMessage(cmd.MessageID, func(m *chat.Message) (bool, error) {
		if m.SenderID != cmd.CallerID {
			return false, errors.ErrUnauthorized
		}
		if m.Deleted {
			return false, fmt.Errorf("%w: message is deleted", errors.ErrValidation)
		}
		m.Edit(cmd.Content, l.now())
		return true, nil
	})
	return m, err
}

// MarkDeleted is a soft delete by the sender. The bool is false when the
// message was already deleted.
func (l *MessageLifecycle) MarkDeleted(cmd chat.DeleteCommand) (chat.Message, bool, error) {
	return l.messages.UpdateMessage(cmd.MessageID, func(m *chat.Message) (bool, error) {
		if m.SenderID != cmd.CallerID {
			return false, errors.ErrUnauthorized
		}
		return m.MarkDeleted(), nil
	})
}

// MarkReadConversation reads every unread message addressed to receiverID.
// Calling it again returns nothing.
func (l *MessageLifecycle) MarkReadConversation(conversationID, receiverID string) ([]chat.Message, error) {
	return l.messages.MarkConversationRead(conversationID, receiverID, l.now())
}

// MarkReadMessage only lets the receiver read a message. The bool is false
// when it was already read.
func (l *MessageLifecycle) MarkReadMessage(cmd chat.ReadMessageCommand) (chat.Message, bool, error) {
	return l.messages.UpdateMessage(cmd.MessageID, func(m *chat.Message) (bool, error) {
		if !m.IsAddressedTo(cmd.CallerID) {
			return false, errors.ErrUnauthorized
		}
		return m.MarkRead(l.now()), nil
	})
}

func (l *MessageLifecycle) MarkDeliveredTo(receiverID string) ([]chat.Message, error) {
	return l.messages.MarkDeliveredTo(receiverID, l.now())
}

func (l *MessageLifecycle) ToView(m chat.Message) (chat.MessageView, error) {
	views, err := l.ToViews([]chat.Message{m})
	if err != nil {
		return chat.MessageView{}, err
	}
	return views[0], nil
}

// ToViews enriches messages with one user lookup for all distinct senders.
func (l *MessageLifecycle) ToViews(messages []chat.Message) ([]chat.MessageView, error) {
	if len(messages) == 0 {
		return []chat.MessageView{}, nil
	}
	senderIDs := lo.Uniq(lo.Map(messages, func(m chat.Message, _ int) string {
		return m.SenderID
	}))
	senders, err := l.users.GetUsersByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	now := l.now()
	return lo.Map(messages, func(m chat.Message, _ int) chat.MessageView {
		var sender *chat.User
		if u, ok := senders[m.SenderID]; ok {
			sender = &u
		}
		return chat.NewView(m, sender, now)
	}), nil
}

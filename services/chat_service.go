//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"justus/contract"
	"justus/domain/chat"
	"justus/domain/event"
	"justus/errors"
	"justus/infrastructure/storage"

	"github.com/samber/lo"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

type IChatService interface {
	SendMessage(ctx context.Context, cmd chat.SendCommand) (chat.Message, error)
	EditMessage(ctx context.Context, cmd chat.EditCommand) (chat.MessageView, error)
	DeleteMessage(ctx context.Context, cmd chat.DeleteCommand) (chat.MessageView, error)
	MarkConversationRead(ctx context.Context, cmd chat.ReadConversationCommand) ([]chat.MessageView, error)
	MarkMessageRead(ctx context.Context, cmd chat.ReadMessageCommand) (chat.MessageView, error)
	Typing(ctx context.Context, cmd chat.TypingCommand) error
	History(cmd chat.HistoryCommand) ([]chat.MessageView, error)
	ResolveConversation(callerID, otherID string) (chat.Conversation, error)
	Search(ctx context.Context, cmd chat.SearchCommand) ([]chat.MessageView, error)
	ConfirmDeliveries(ctx context.Context, userID string) (int, error)
}

// Moderator rewrites offensive words of a text message.
type Moderator interface {
	Censor(content string) (string, []string)
}

type OperationObserver interface {
	IncOperation(operation string, n int)
}

// ChatService validates participants, drives the message lifecycle and fans
// the resulting views out to the topics of everyone affected.
type ChatService struct {
	log           *slog.Logger
	lifecycle     IMessageLifecycle
	resolver      IConversationResolver
	conversations storage.IConversationRepository
	messages      storage.IMessageRepository
	users         storage.IUserRepository
	index         storage.ISearchIndex
	publisher     contract.Publisher
	moderator     Moderator
	observer      OperationObserver
}

func NewChatService(
	log *slog.Logger,
	lifecycle IMessageLifecycle,
	resolver IConversationResolver,
	conversations storage.IConversationRepository,
	messages storage.IMessageRepository,
	users storage.IUserRepository,
	index storage.ISearchIndex,
	publisher contract.Publisher,
	observer OperationObserver,
) *ChatService {
	return &ChatService{
		log:           log,
		lifecycle:     lifecycle,
		resolver:      resolver,
		conversations: conversations,
		messages:      messages,
		users:         users,
		index:         index,
		publisher:     publisher,
		observer:      observer,
	}
}

// WithModerator enables censoring of text content on send and edit.
func (s *ChatService) WithModerator(m Moderator) *ChatService {
	s.moderator = m
	return s
}

func (s *ChatService) SendMessage(ctx context.Context, cmd chat.SendCommand) (chat.Message, error) {
	if cmd.Draft.ConversationID == "" && cmd.Draft.ReceiverID != "" {
		if _, err := s.users.GetUserByID(cmd.Draft.ReceiverID); err != nil {
			return chat.Message{}, err
		}
	}
	if cmd.Draft.Type == chat.TextType {
		cmd.Draft.Content = s.censor(cmd.Draft.SenderID, cmd.Draft.Content)
	}

	m, err := s.lifecycle.Send(cmd)
	if err != nil {
		return chat.Message{}, err
	}
	s.count("send", 1)
	s.indexMessage(m)

	view, err := s.lifecycle.ToView(m)
	if err != nil {
		s.log.Error("Unable to build message view", "message_id", m.ID, "error", err)
		return m, nil
	}
	s.publish(ctx, event.UserTopic(m.SenderID), view)
	s.publish(ctx, event.UserTopic(m.ReceiverID), view)
	return m, nil
}

func (s *ChatService) EditMessage(ctx context.Context, cmd chat.EditCommand) (chat.MessageView, error) {
	cmd.Content = s.censor(cmd.CallerID, cmd.Content)
	m, err := s.lifecycle.Edit(cmd)
	if err != nil {
		return chat.MessageView{}, err
	}
	s.count("edit", 1)
	s.indexMessage(m)

	view, err := s.lifecycle.ToView(m)
	if err != nil {
		return chat.MessageView{}, err
	}
	s.broadcastChange(ctx, event.MessageEdited, event.TopicEdited, view)
	return view, nil
}

// DeleteMessage only broadcasts the first deletion of a message.
func (s *ChatService) DeleteMessage(ctx context.Context, cmd chat.DeleteCommand) (chat.MessageView, error) {
	m, changed, err := s.lifecycle.MarkDeleted(cmd)
	if err != nil {
		return chat.MessageView{}, err
	}
	view, err := s.lifecycle.ToView(m)
	if err != nil {
		return chat.MessageView{}, err
	}
	if !changed {
		return view, nil
	}
	s.count("delete", 1)
	if err = s.index.RemoveMessage(m.ID); err != nil {
		s.log.Warn("Unable to unindex message", "message_id", m.ID, "error", err)
	}
	s.broadcastChange(ctx, event.MessageDeleted, event.TopicDeleted, view)
	return view, nil
}

// MarkConversationRead answers an outsider exactly like a missing
// conversation: nothing to read.
func (s *ChatService) MarkConversationRead(ctx context.Context, cmd chat.ReadConversationCommand) ([]chat.MessageView, error) {
	if strings.TrimSpace(cmd.ConversationID) == "" {
		return nil, fmt.Errorf("%w: conversationId is required", errors.ErrValidation)
	}
	ok, err := s.isParticipant(cmd.ConversationID, cmd.CallerID)
	if err != nil || !ok {
		return []chat.MessageView{}, err
	}
	read, err := s.lifecycle.MarkReadConversation(cmd.ConversationID, cmd.CallerID)
	if err != nil {
		return nil, err
	}
	views, err := s.lifecycle.ToViews(read)
	if err != nil {
		return nil, err
	}
	s.count("read", len(views))
	for _, v := range views {
		s.publish(ctx, event.UserTopic(v.SenderID), event.NewMessageEvent(event.MessageRead, v))
	}
	return views, nil
}

func (s *ChatService) MarkMessageRead(ctx context.Context, cmd chat.ReadMessageCommand) (chat.MessageView, error) {
	m, changed, err := s.lifecycle.MarkReadMessage(cmd)
	if err != nil {
		return chat.MessageView{}, err
	}
	view, err := s.lifecycle.ToView(m)
	if err != nil {
		return chat.MessageView{}, err
	}
	if changed {
		s.count("read", 1)
		s.publish(ctx, event.UserTopic(m.SenderID), event.NewMessageEvent(event.MessageRead, view))
	}
	return view, nil
}

// Typing is forwarded to the addressed user and never stored.
func (s *ChatService) Typing(ctx context.Context, cmd chat.TypingCommand) error {
	if cmd.SenderID == "" || cmd.ReceiverID == "" {
		return fmt.Errorf("%w: receiverId is required", errors.ErrValidation)
	}
	s.publish(ctx, event.UserTopic(cmd.ReceiverID), event.Event{Type: event.Typing, User: cmd.SenderID})
	return nil
}

// History lists a conversation the caller takes part in, or every message
// the caller sent or received when no conversation is given.
func (s *ChatService) History(cmd chat.HistoryCommand) ([]chat.MessageView, error) {
	var (
		messages []chat.Message
		err      error
	)
	if cmd.ConversationID == "" {
		messages, err = s.messages.GetUserMessages(cmd.CallerID)
	} else {
		ok, partErr := s.isParticipant(cmd.ConversationID, cmd.CallerID)
		if partErr != nil || !ok {
			return []chat.MessageView{}, partErr
		}
		messages, err = s.messages.GetConversationMessages(cmd.ConversationID)
	}
	if err != nil {
		return nil, err
	}
	return s.lifecycle.ToViews(messages)
}

func (s *ChatService) ResolveConversation(callerID, otherID string) (chat.Conversation, error) {
	if strings.TrimSpace(otherID) == "" {
		return chat.Conversation{}, fmt.Errorf("%w: other is required", errors.ErrValidation)
	}
	if _, err := s.users.GetUserByID(otherID); err != nil {
		return chat.Conversation{}, err
	}
	return s.resolver.Resolve(callerID, otherID)
}

// Search matches the non deleted text messages of a conversation the caller
// takes part in.
func (s *ChatService) Search(ctx context.Context, cmd chat.SearchCommand) ([]chat.MessageView, error) {
	if strings.TrimSpace(cmd.Terms) == "" {
		return nil, fmt.Errorf("%w: q is required", errors.ErrValidation)
	}
	ok, err := s.isParticipant(cmd.ConversationID, cmd.CallerID)
	if err != nil || !ok {
		return []chat.MessageView{}, err
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	ids, err := s.index.Search(ctx, cmd.ConversationID, cmd.SenderID, cmd.Terms, limit)
	if err != nil {
		return nil, err
	}
	found := make([]chat.Message, 0, len(ids))
	for _, id := range ids {
		m, err := s.messages.GetMessage(id)
		if stderrors.Is(err, errors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !m.Deleted && m.ConversationID == cmd.ConversationID {
			found = append(found, m)
		}
	}
	return s.lifecycle.ToViews(found)
}

// ConfirmDeliveries marks what was waiting for userID as delivered and tells
// each sender.
func (s *ChatService) ConfirmDeliveries(ctx context.Context, userID string) (int, error) {
	delivered, err := s.lifecycle.MarkDeliveredTo(userID)
	if err != nil || len(delivered) == 0 {
		return 0, err
	}
	views, err := s.lifecycle.ToViews(delivered)
	if err != nil {
		return 0, err
	}
	s.count("deliver", len(views))
	for _, v := range views {
		s.publish(ctx, event.UserTopic(v.SenderID), event.NewMessageEvent(event.MessageDelivered, v))
	}
	return len(views), nil
}

func (s *ChatService) isParticipant(conversationID, userID string) (bool, error) {
	if conversationID == "" {
		return false, nil
	}
	conv, err := s.conversations.GetConversation(conversationID)
	if stderrors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return conv.HasParticipant(userID), nil
}

// broadcastChange tells both participants with an envelope and the global
// topic with the bare view.
func (s *ChatService) broadcastChange(ctx context.Context, kind event.Type, globalTopic string, view chat.MessageView) {
	envelope := event.NewMessageEvent(kind, view)
	participants := lo.Compact(lo.Uniq([]string{view.SenderID, view.ReceiverID}))
	for _, userID := range participants {
		s.publish(ctx, event.UserTopic(userID), envelope)
	}
	s.publish(ctx, globalTopic, view)
}

func (s *ChatService) publish(ctx context.Context, topic string, payload any) {
	if topic == event.UserTopic("") {
		return
	}
	n := s.publisher.Publish(ctx, topic, payload)
	s.log.Debug("Published", "topic", topic, "subscribers", n)
}

func (s *ChatService) indexMessage(m chat.Message) {
	if err := s.index.IndexMessage(m); err != nil {
		s.log.Warn("Unable to index message", "message_id", m.ID, "error", err)
	}
}

func (s *ChatService) censor(userID, content string) string {
	if s.moderator == nil {
		return content
	}
	censored, words := s.moderator.Censor(content)
	if len(words) > 0 {
		s.log.Info("Message censored", "user_id", userID, "words", len(words))
	}
	return censored
}

func (s *ChatService) count(operation string, n int) {
	if s.observer != nil && n > 0 {
		s.observer.IncOperation(operation, n)
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=../mocks/mock_resolver.go -package=mocks
package services

import (
	stderrors "errors"
	"log/slog"

	"justus/domain/chat"
	"justus/errors"
	"justus/infrastructure/storage"

	"github.com/google/uuid"
)

type IConversationResolver interface {
	Resolve(userA, userB string) (chat.Conversation, error)
}

// ConversationResolver derives the canonical conversation of an unordered
// pair and creates it on first contact. Known pairs are read without a write
// transaction; uniqueness on creation is left to the store.
type ConversationResolver struct {
	log   *slog.Logger
	repo  storage.IConversationRepository
	newID func() string
}

func NewConversationResolver(log *slog.Logger, repo storage.IConversationRepository) *ConversationResolver {
	return &ConversationResolver{log: log, repo: repo, newID: uuid.NewString}
}

func (r *ConversationResolver) Resolve(userA, userB string) (chat.Conversation, error) {
	candidate, err := chat.NewConversation(r.newID(), userA, userB)
	if err != nil {
		return chat.Conversation{}, err
	}
	conv, err := r.repo.GetByKey(candidate.Key)
	if err == nil {
		return conv, nil
	}
	if !stderrors.Is(err, errors.ErrNotFound) {
		return chat.Conversation{}, err
	}
	conv, created, err := r.repo.FindOrCreate(candidate)
	if err != nil {
		return chat.Conversation{}, err
	}
	if created {
		r.log.Info("Conversation started", "conversation_id", conv.ID)
	}
	return conv, nil
}

//go:generate go run go.uber.org/mock/mockgen -source=conversation_repository.go -destination=../../mocks/mock_conversation_repository.go -package=mocks
package storage

import (
	"log/slog"

	"justus/domain/chat"

	"github.com/dgraph-io/badger/v4"
)

type IConversationRepository interface {
	FindOrCreate(candidate chat.Conversation) (chat.Conversation, bool, error)
	GetConversation(id string) (chat.Conversation, error)
	GetByKey(canonicalKey string) (chat.Conversation, error)
	ListConversations() ([]chat.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

// FindOrCreate is an insert-or-fetch on the canonical key. When two writers
// race on the same pair, badger aborts the second commit with ErrConflict, the
// transaction is replayed and then finds the winner's record. The returned
// bool reports whether candidate was inserted.
func (c *ConversationRepository) FindOrCreate(candidate chat.Conversation) (chat.Conversation, bool, error) {
	var result chat.Conversation
	var created bool
	err := update(c.db, func(txn *badger.Txn) error {
		created = false
		id, err := getString(txn, convCanonicalKey(candidate.Key))
		if err == nil {
			result, err = getJSON[chat.Conversation](txn, convKey(id))
			return err
		}
		if !isNotFound(err) {
			return err
		}
		if err = setJSON(txn, convKey(candidate.ID), candidate); err != nil {
			return err
		}
		if err = txn.Set(convCanonicalKey(candidate.Key), []byte(candidate.ID)); err != nil {
			return err
		}
		result, created = candidate, true
		return nil
	})
	if err != nil {
		return chat.Conversation{}, false, err
	}
	if created {
		c.log.Debug("Conversation created", "conversation_id", result.ID, "key", result.Key)
	}
	return result, created, nil
}

func (c *ConversationRepository) GetConversation(id string) (chat.Conversation, error) {
	var conv chat.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		conv, err = getJSON[chat.Conversation](txn, convKey(id))
		return err
	})
	return conv, err
}

func (c *ConversationRepository) GetByKey(canonicalKey string) (chat.Conversation, error) {
	var conv chat.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, convCanonicalKey(canonicalKey))
		if err != nil {
			return err
		}
		conv, err = getJSON[chat.Conversation](txn, convKey(id))
		return err
	})
	return conv, err
}

func (c *ConversationRepository) ListConversations() ([]chat.Conversation, error) {
	var convs []chat.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		convs, err = scanValues[chat.Conversation](txn, []byte(convIDPrefix))
		return err
	})
	return convs, err
}

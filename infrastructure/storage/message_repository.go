//go:generate go run go.uber.org/mock/mockgen -source=message_repository.go -destination=../../mocks/mock_message_repository.go -package=mocks
package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"justus/domain/chat"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// MutateFunc changes a message in place and reports whether anything changed.
// Returning an error aborts the update.
type MutateFunc func(m *chat.Message) (bool, error)

type IMessageRepository interface {
	SaveMessage(msg chat.Message) error
	GetMessage(id string) (chat.Message, error)
	UpdateMessage(id string, mutate MutateFunc) (chat.Message, bool, error)
	GetConversationMessages(conversationID string) ([]chat.Message, error)
	GetUserMessages(userID string) ([]chat.Message, error)
	MarkConversationRead(conversationID, receiverID string, at time.Time) ([]chat.Message, error)
	MarkDeliveredTo(receiverID string, at time.Time) ([]chat.Message, error)
	CountMessages() (int, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

// NewMessageRepository bounds history reads to the latest limitMessages
// messages when limitMessages is not nil.
func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// SaveMessage writes the record and every index pointing at it.
func (r *MessageRepository) SaveMessage(m chat.Message) error {
	return update(r.db, func(txn *badger.Txn) error {
		if err := setJSON(txn, messageKey(m.ID), m); err != nil {
			return err
		}
		id := []byte(m.ID)
		if err := txn.Set(conversationIndexKey(m), id); err != nil {
			return err
		}
		for _, userID := range lo.Uniq(lo.Compact([]string{m.SenderID, m.ReceiverID})) {
			if err := txn.Set(userIndexKey(userID, m), id); err != nil {
				return err
			}
		}
		return syncStateIndexes(txn, m)
	})
}

func (r *MessageRepository) GetMessage(id string) (chat.Message, error) {
	var m chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		m, err = getJSON[chat.Message](txn, messageKey(id))
		return err
	})
	return m, err
}

// UpdateMessage is an atomic read-modify-write on a single message.
// Nothing is written when mutate reports no change.
func (r *MessageRepository) UpdateMessage(id string, mutate MutateFunc) (chat.Message, bool, error) {
	var result chat.Message
	var changed bool
	err := update(r.db, func(txn *badger.Txn) error {
		m, err := getJSON[chat.Message](txn, messageKey(id))
		if err != nil {
			return err
		}
		changed, err = mutate(&m)
		if err != nil {
			return err
		}
		result = m
		if !changed {
			return nil
		}
		if err = setJSON(txn, messageKey(id), m); err != nil {
			return err
		}
		return syncStateIndexes(txn, m)
	})
	if err != nil {
		return chat.Message{}, false, err
	}
	return result, changed, nil
}

// GetConversationMessages returns the history oldest first. When a limit is
// configured only the most recent messages are returned.
func (r *MessageRepository) GetConversationMessages(conversationID string) ([]chat.Message, error) {
	return r.listByIndex(conversationPrefix(conversationID))
}

// GetUserMessages returns every message userID sent or received, oldest first.
func (r *MessageRepository) GetUserMessages(userID string) ([]chat.Message, error) {
	return r.listByIndex(userMessagesPrefix(userID))
}

func (r *MessageRepository) listByIndex(prefix []byte) ([]chat.Message, error) {
	limit := 0
	if r.limitMessages != nil {
		limit = *r.limitMessages
	}
	var messages []chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		keys := scanKeys(txn, prefix, true, limit)
		if limit > 0 && len(keys) == limit {
			r.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
		}
		slices.Reverse(keys)
		var err error
		messages, err = loadMessages(txn, keys)
		return err
	})
	return messages, err
}

// MarkConversationRead flips every unread message addressed to receiverID in
// the conversation and returns the ones that changed. A second call finds an
// empty unread index and returns nothing.
func (r *MessageRepository) MarkConversationRead(conversationID, receiverID string, at time.Time) ([]chat.Message, error) {
	return r.transitionIndexed(unreadPrefix(conversationID, receiverID), func(m *chat.Message) bool {
		return m.IsAddressedTo(receiverID) && m.MarkRead(at)
	})
}

// MarkDeliveredTo flips every undelivered message addressed to receiverID.
func (r *MessageRepository) MarkDeliveredTo(receiverID string, at time.Time) ([]chat.Message, error) {
	return r.transitionIndexed(undeliveredPrefix(receiverID), func(m *chat.Message) bool {
		return m.IsAddressedTo(receiverID) && m.MarkDelivered(at)
	})
}

func (r *MessageRepository) transitionIndexed(prefix []byte, transition func(m *chat.Message) bool) ([]chat.Message, error) {
	var changed []chat.Message
	err := update(r.db, func(txn *badger.Txn) error {
		changed = nil
		keys := scanKeys(txn, prefix, false, 0)
		messages, err := loadMessages(txn, keys)
		if err != nil {
			return err
		}
		for i, m := range messages {
			if !transition(&m) {
				// Stale index entry
				if err = txn.Delete(keys[i]); err != nil {
					return err
				}
				continue
			}
			if err = setJSON(txn, messageKey(m.ID), m); err != nil {
				return err
			}
			if err = syncStateIndexes(txn, m); err != nil {
				return err
			}
			changed = append(changed, m)
		}
		return nil
	})
	return changed, err
}

func (r *MessageRepository) CountMessages() (int, error) {
	var count int
	err := r.db.View(func(txn *badger.Txn) error {
		count = len(scanKeys(txn, []byte(msgIDPrefix), false, 0))
		return nil
	})
	return count, err
}

// syncStateIndexes keeps the unread and undelivered indexes in line with the
// flags of m.
func syncStateIndexes(txn *badger.Txn, m chat.Message) error {
	if m.ReceiverID == "" {
		return nil
	}
	if m.Read {
		if err := txn.Delete(unreadKey(m)); err != nil {
			return err
		}
	} else if err := txn.Set(unreadKey(m), []byte(m.ID)); err != nil {
		return err
	}
	if m.Delivered {
		return txn.Delete(undeliveredKey(m))
	}
	return txn.Set(undeliveredKey(m), []byte(m.ID))
}

func loadMessages(txn *badger.Txn, indexKeys [][]byte) ([]chat.Message, error) {
	messages := make([]chat.Message, 0, len(indexKeys))
	for _, key := range indexKeys {
		id := idFromIndexKey(key)
		m, err := getJSON[chat.Message](txn, messageKey(id))
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", id, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

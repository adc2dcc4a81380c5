package storage

import (
	"sync"
	"testing"
	"time"

	"justus/domain/chat"
	"justus/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newMessage(conversationID, sender, receiver, content string, at time.Time) chat.Message {
	return chat.Message{
		ID:             uuid.NewString(),
		SenderID:       sender,
		ReceiverID:     receiver,
		ConversationID: conversationID,
		Type:           chat.TextType,
		Content:        content,
		Timestamp:      at,
	}
}

func TestMessageRepository_HistoryIsChronological(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), testLogger(), nil)
	at := time.Now().UTC()

	// Stored out of order on purpose
	messages := []chat.Message{
		newMessage("c1", "alice", "bob", "third", at.Add(2*time.Minute)),
		newMessage("c1", "bob", "alice", "first", at),
		newMessage("c1", "alice", "bob", "second", at.Add(time.Minute)),
		newMessage("c2", "carol", "alice", "elsewhere", at),
	}
	for _, m := range messages {
		req.NoError(repo.SaveMessage(m))
	}

	history, err := repo.GetConversationMessages("c1")
	req.NoError(err)
	req.Equal([]string{"first", "second", "third"}, lo.Map(history, func(m chat.Message, _ int) string {
		return m.Content
	}))

	aliceMessages, err := repo.GetUserMessages("alice")
	req.NoError(err)
	req.Len(aliceMessages, 4)

	bobMessages, err := repo.GetUserMessages("bob")
	req.NoError(err)
	req.Len(bobMessages, 3)

	count, err := repo.CountMessages()
	req.NoError(err)
	req.Equal(4, count)
}

func TestMessageRepository_HistoryLimitKeepsMostRecent(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), testLogger(), lo.ToPtr(2))
	at := time.Now().UTC()
	for i, content := range []string{"a", "b", "c"} {
		req.NoError(repo.SaveMessage(newMessage("c1", "alice", "bob", content, at.Add(time.Duration(i)*time.Second))))
	}

	history, err := repo.GetConversationMessages("c1")
	req.NoError(err)
	req.Len(history, 2)
	req.Equal("b", history[0].Content)
	req.Equal("c", history[1].Content)
}

func TestMessageRepository_UpdateMessage(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), testLogger(), nil)
	m := newMessage("c1", "alice", "bob", "hi", time.Now().UTC())
	req.NoError(repo.SaveMessage(m))

	updated, changed, err := repo.UpdateMessage(m.ID, func(m *chat.Message) (bool, error) {
		return m.MarkDeleted(), nil
	})
	req.NoError(err)
	req.True(changed)
	req.True(updated.Deleted)
	req.Equal("hi", updated.Content)

	_, changed, err = repo.UpdateMessage(m.ID, func(m *chat.Message) (bool, error) {
		return m.MarkDeleted(), nil
	})
	req.NoError(err)
	req.False(changed)

	_, _, err = repo.UpdateMessage("missing", func(m *chat.Message) (bool, error) {
		return true, nil
	})
	req.ErrorIs(err, errors.ErrNotFound)

	_, _, err = repo.UpdateMessage(m.ID, func(m *chat.Message) (bool, error) {
		return false, errors.ErrUnauthorized
	})
	req.ErrorIs(err, errors.ErrUnauthorized)
}

func TestMessageRepository_MarkConversationReadIsIdempotent(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), testLogger(), nil)
	at := time.Now().UTC()
	toBob1 := newMessage("c1", "alice", "bob", "one", at)
	toBob2 := newMessage("c1", "alice", "bob", "two", at.Add(time.Second))
	toAlice := newMessage("c1", "bob", "alice", "reply", at.Add(2*time.Second))
	for _, m := range []chat.Message{toBob1, toBob2, toAlice} {
		req.NoError(repo.SaveMessage(m))
	}

	readAt := at.Add(time.Minute)
	read, err := repo.MarkConversationRead("c1", "bob", readAt)
	req.NoError(err)
	req.Len(read, 2)
	for _, m := range read {
		req.True(m.Read)
		req.True(m.Delivered)
		req.Equal(readAt, m.ReadAt.UTC())
	}

	again, err := repo.MarkConversationRead("c1", "bob", readAt.Add(time.Minute))
	req.NoError(err)
	req.Empty(again)

	// The message addressed to alice is untouched
	stored, err := repo.GetMessage(toAlice.ID)
	req.NoError(err)
	req.False(stored.Read)

	// A single read already applied leaves nothing for the bulk path
	_, _, err = repo.UpdateMessage(toAlice.ID, func(m *chat.Message) (bool, error) {
		return m.MarkRead(readAt), nil
	})
	req.NoError(err)
	read, err = repo.MarkConversationRead("c1", "alice", readAt)
	req.NoError(err)
	req.Empty(read)
}

func TestMessageRepository_ConcurrentSingleAndBulkReads(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), testLogger(), nil)
	at := time.Now().UTC()
	const total, workers = 50, 16
	ids := make([]string, total)
	for i := range total {
		m := newMessage("c1", "alice", "bob", "ping", at.Add(time.Duration(i)*time.Millisecond))
		req.NoError(repo.SaveMessage(m))
		ids[i] = m.ID
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
		read = map[string]int{}
	)
	record := func(err error, changed ...string) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
		}
		for _, id := range changed {
			read[id]++
		}
	}
	readAt := at.Add(time.Minute)
	for w := range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := w; i < total; i += workers {
				m, changed, err := repo.UpdateMessage(ids[i], func(m *chat.Message) (bool, error) {
					return m.MarkRead(readAt), nil
				})
				if changed {
					record(err, m.ID)
				} else {
					record(err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			changed, err := repo.MarkConversationRead("c1", "bob", readAt)
			record(err, lo.Map(changed, func(m chat.Message, _ int) string { return m.ID })...)
		}()
	}
	wg.Wait()

	// Every message flipped exactly once, whichever path won
	req.Empty(errs)
	req.Len(read, total)
	for id, n := range read {
		req.Equal(1, n, id)
	}
	again, err := repo.MarkConversationRead("c1", "bob", readAt)
	req.NoError(err)
	req.Empty(again)
	for _, id := range ids {
		stored, err := repo.GetMessage(id)
		req.NoError(err)
		req.True(stored.Read)
		req.True(stored.Delivered)
	}
}

func TestMessageRepository_MarkDeliveredTo(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), testLogger(), nil)
	at := time.Now().UTC()
	pending := newMessage("c1", "alice", "bob", "while you were away", at)
	delivered := newMessage("c1", "alice", "bob", "over the socket", at.Add(time.Second))
	delivered.MarkDelivered(at.Add(time.Second))
	req.NoError(repo.SaveMessage(pending))
	req.NoError(repo.SaveMessage(delivered))

	changed, err := repo.MarkDeliveredTo("bob", at.Add(time.Minute))
	req.NoError(err)
	req.Len(changed, 1)
	req.Equal(pending.ID, changed[0].ID)
	req.True(changed[0].Delivered)
	req.False(changed[0].Read)

	changed, err = repo.MarkDeliveredTo("bob", at.Add(time.Hour))
	req.NoError(err)
	req.Empty(changed)
}

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"justus/auth"
	"justus/domain/chat"
	"justus/domain/event"
	"justus/infrastructure/http/server"
	"justus/infrastructure/storage"
	"justus/internal/ratelimit"
	"justus/observability"
	"justus/runtime"
	"justus/runtime/workers"
	"justus/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type stack struct {
	url string
}

type frame struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// newStack wires the whole server on a temporary store, the way the server
// binary does.
func newStack(t *testing.T) stack {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	users := storage.NewUserRepository(db, log)
	conversations := storage.NewConversationRepository(db, log)
	messages := storage.NewMessageRepository(db, log, nil)
	media := storage.NewMediaRepository(db, log)
	index := storage.NewSearchIndex(writer, log)

	metrics := observability.NewMetrics()
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 10*time.Millisecond), metrics, 16, time.Hour)

	issuer := auth.NewTokenIssuer("integration-secret", time.Hour)
	gate := auth.NewGate(log, issuer, "auth-token", time.Second)
	hasher := auth.NewPasswordHasher(auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	resolver := services.NewConversationResolver(log, conversations)
	lifecycle := services.NewMessageLifecycle(log, messages, conversations, users, resolver)
	authService := services.NewAuthService(log, users, hasher, issuer, 2)
	mediaService := services.NewMediaService(log, media, conversations, 1<<20)
	chatService := services.NewChatService(log, lifecycle, resolver, conversations, messages, users, index, orchestrator.Hub(), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = orchestrator.Start(ctx, chatService)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	srv := server.NewServer(log, server.Options{
		CookieName:     "auth-token",
		AllowedOrigins: []string{"http://chat.test"},
		WriteTimeout:   time.Second,
		PingInterval:   time.Second,
		ReadLimit:      1 << 16,
	}, gate, authService, chatService, mediaService, orchestrator.Hub(),
		ratelimit.PerMinute(600, 100, 0), metrics, storeCounts{users, messages})
	httpServer := httptest.NewServer(srv.Router())
	t.Cleanup(httpServer.Close)
	return stack{url: httpServer.URL}
}

type storeCounts struct {
	users    *storage.UserRepository
	messages *storage.MessageRepository
}

func (p storeCounts) CountUsers() (int, error)    { return p.users.CountUsers() }
func (p storeCounts) CountMessages() (int, error) { return p.messages.CountMessages() }

func (s stack) call(t *testing.T, method, path, token string, body, out any) int {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r, err := http.NewRequest(method, s.url+path, &buf)
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(r)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s stack) register(t *testing.T, username string) chat.Session {
	var session chat.Session
	status := s.call(t, http.MethodPost, "/auth/register", "", map[string]string{"username": username, "password": "secret"}, &session)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, session.Token)
	return session
}

func (s stack) dial(t *testing.T, token string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(s.url, "http") + "/ws?token=" + url.QueryEscape(token)
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	// Frames are handled after the default subscriptions, so the refusal of
	// the errors topic proves the inbox is live
	require.NoError(t, ws.WriteJSON(map[string]string{"action": "subscribe", "topic": event.TopicErrors}))
	readUntil(t, ws, func(f frame) bool { return f.Topic == event.TopicErrors })
	return ws
}

// readUntil skips frames until one satisfies match.
func readUntil(t *testing.T, ws *websocket.Conn, match func(frame) bool) frame {
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, ws.SetReadDeadline(deadline))
		var f frame
		require.NoError(t, ws.ReadJSON(&f), "expected frame never arrived")
		if match(f) {
			return f
		}
	}
}

func eventOf(t *testing.T, f frame) event.Event {
	var e event.Event
	require.NoError(t, json.Unmarshal(f.Payload, &e))
	return e
}

func isEvent(topic string, kind event.Type) func(frame) bool {
	return func(f frame) bool {
		if f.Topic != topic {
			return false
		}
		var e event.Event
		return json.Unmarshal(f.Payload, &e) == nil && e.Type == kind
	}
}

func Test_Scenario(t *testing.T) {
	req := require.New(t)
	s := newStack(t)

	// 1. Two users fill the instance, a third one is refused
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	var refused struct{ Message string }
	req.Equal(http.StatusBadRequest, s.call(t, http.MethodPost, "/auth/register", "",
		map[string]string{"username": "carol", "password": "secret"}, &refused))
	req.Equal("Registration closed: only two users allowed", refused.Message)

	// 2. Alice is online, Bob is not: her request path send stays undelivered
	aliceWS := s.dial(t, alice.Token)
	var first chat.Message
	req.Equal(http.StatusOK, s.call(t, http.MethodPost, "/chat/messages", alice.Token,
		map[string]string{"receiverId": bob.User.ID, "content": "lunch at noon?"}, &first))
	req.False(first.Delivered)
	req.NotEmpty(first.ConversationID)

	echo := readUntil(t, aliceWS, func(f frame) bool { return f.Topic == event.UserTopic(alice.User.ID) })
	var echoed chat.MessageView
	req.NoError(json.Unmarshal(echo.Payload, &echoed))
	req.Equal(first.ID, echoed.ID)
	req.Equal("alice", echoed.SenderUsername)

	// 3. Bob connects: the pending message becomes delivered and Alice hears of it
	bobWS := s.dial(t, bob.Token)
	delivered := eventOf(t, readUntil(t, aliceWS, isEvent(event.UserTopic(alice.User.ID), event.MessageDelivered)))
	req.Equal(first.ID, delivered.Message.ID)
	req.True(delivered.Message.Delivered)

	// 4. Bob answers over the socket, delivered at once
	req.NoError(bobWS.WriteJSON(map[string]any{
		"action":  "chat.send",
		"payload": map[string]string{"conversationId": first.ConversationID, "receiverId": alice.User.ID, "content": "lunch works"},
	}))
	answer := readUntil(t, aliceWS, func(f frame) bool {
		var v chat.MessageView
		return f.Topic == event.UserTopic(alice.User.ID) && json.Unmarshal(f.Payload, &v) == nil && v.SenderID == bob.User.ID
	})
	var answered chat.MessageView
	req.NoError(json.Unmarshal(answer.Payload, &answered))
	req.True(answered.Delivered)
	req.Equal(first.ConversationID, answered.ConversationID)

	// 5. Bob reads the conversation, Alice is told about her message
	var read []chat.MessageView
	req.Equal(http.StatusOK, s.call(t, http.MethodPost, "/chat/messages/mark-read", bob.Token,
		map[string]string{"conversationId": first.ConversationID}, &read))
	req.Len(read, 1)
	readEvent := eventOf(t, readUntil(t, aliceWS, isEvent(event.UserTopic(alice.User.ID), event.MessageRead)))
	req.Equal(first.ID, readEvent.Message.ID)
	req.True(readEvent.Message.Read)

	// 6. Alice edits her message, both inboxes and the global topic see it
	req.NoError(aliceWS.WriteJSON(map[string]any{
		"action":  "chat.edit",
		"payload": map[string]string{"id": first.ID, "content": "lunch at one?"},
	}))
	edited := eventOf(t, readUntil(t, bobWS, isEvent(event.UserTopic(bob.User.ID), event.MessageEdited)))
	req.Equal("lunch at one?", edited.Message.Content)
	req.True(edited.Message.Edited)

	// 7. History is ordered and search finds both messages
	var history []chat.MessageView
	req.Equal(http.StatusOK, s.call(t, http.MethodGet, "/chat/messages?conversationId="+first.ConversationID, alice.Token, nil, &history))
	req.Len(history, 2)
	req.Equal(first.ID, history[0].ID)
	req.Equal(answered.ID, history[1].ID)

	var found []chat.MessageView
	req.Equal(http.StatusOK, s.call(t, http.MethodGet, "/chat/search?conversationId="+first.ConversationID+"&q=lunch", bob.Token, nil, &found))
	req.Len(found, 2)

	// 8. Health reflects the store
	var health map[string]any
	req.Equal(http.StatusOK, s.call(t, http.MethodGet, "/health", "", nil, &health))
	req.Equal("UP", health["status"])
	req.EqualValues(2, health["messages"])
}

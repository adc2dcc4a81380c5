package runtime

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"justus/contract"
	"justus/domain/event"
)

const shardCount = 32

// PublishObserver receives fan-out counts, by topic kind.
type PublishObserver interface {
	IncPublished(kind string, n int)
}

type subscriber struct {
	connID string
	sink   contract.EventSink
}

type topicShard struct {
	mu     sync.RWMutex
	topics map[string]map[string]subscriber // topic -> connID -> subscriber
}

type connection struct {
	userID string
	topics map[string]struct{}
}

// Hub is the ConnectionHub. Topic subscribers are spread over shards so that
// publishes on unrelated topics never contend. The connection table is
// guarded by its own lock, always taken before a shard lock.
type Hub struct {
	log      *slog.Logger
	observer PublishObserver
	shards   [shardCount]*topicShard

	mu        sync.Mutex
	conns     map[string]*connection
	users     map[string]int // userID -> live connections
	connected chan<- event.Connected
	now       func() time.Time
}

// NewHub reports first inbox subscriptions on connected when it is not nil.
func NewHub(log *slog.Logger, observer PublishObserver, connected chan<- event.Connected) *Hub {
	h := &Hub{
		log:       log,
		observer:  observer,
		conns:     make(map[string]*connection),
		users:     make(map[string]int),
		connected: connected,
		now:       time.Now,
	}
	for i := range h.shards {
		h.shards[i] = &topicShard{topics: make(map[string]map[string]subscriber)}
	}
	return h
}

func (h *Hub) shard(topic string) *topicShard {
	f := fnv.New32a()
	_, _ = f.Write([]byte(topic))
	return h.shards[f.Sum32()%shardCount]
}

// Subscribe registers sink for topic on behalf of connID. Subscribing twice
// is a no-op. userID is empty for anonymous connections.
func (h *Hub) Subscribe(connID, userID, topic string, sink contract.EventSink) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		conn = &connection{userID: userID, topics: make(map[string]struct{})}
		h.conns[connID] = conn
		if userID != "" {
			h.users[userID]++
		}
	}
	if _, already := conn.topics[topic]; already {
		return
	}
	conn.topics[topic] = struct{}{}

	s := h.shard(topic)
	s.mu.Lock()
	subs, ok := s.topics[topic]
	if !ok {
		subs = make(map[string]subscriber)
		s.topics[topic] = subs
	}
	subs[connID] = subscriber{connID: connID, sink: sink}
	s.mu.Unlock()

	h.log.Debug("Subscribed", "conn_id", connID, "user_id", userID, "topic", topic)
	if userID != "" && topic == event.UserTopic(userID) {
		h.notifyConnected(userID)
	}
}

// Unsubscribe removes one topic. The connection is forgotten once it has no
// topic left.
func (h *Hub) Unsubscribe(connID, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	if _, subscribed := conn.topics[topic]; !subscribed {
		return
	}
	delete(conn.topics, topic)
	h.removeFromShard(connID, topic)
	if len(conn.topics) == 0 {
		h.forget(connID, conn)
	}
}

// UnsubscribeAll drops every subscription of a connection, on disconnect.
func (h *Hub) UnsubscribeAll(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	for topic := range conn.topics {
		h.removeFromShard(connID, topic)
	}
	h.forget(connID, conn)
	h.log.Debug("Connection deregistered", "conn_id", connID, "user_id", conn.userID)
}

func (h *Hub) removeFromShard(connID, topic string) {
	s := h.shard(topic)
	s.mu.Lock()
	defer s.mu.Unlock()
	subs, ok := s.topics[topic]
	if !ok {
		return
	}
	delete(subs, connID)
	if len(subs) == 0 {
		delete(s.topics, topic)
	}
}

func (h *Hub) forget(connID string, conn *connection) {
	delete(h.conns, connID)
	if conn.userID == "" {
		return
	}
	h.users[conn.userID]--
	if h.users[conn.userID] <= 0 {
		delete(h.users, conn.userID)
	}
}

func (h *Hub) notifyConnected(userID string) {
	if h.connected == nil {
		return
	}
	select {
	case h.connected <- event.Connected{UserID: userID, At: h.now().UTC()}:
	default:
		h.log.Warn("Connected channel full, skipping delivery backfill", "user_id", userID)
	}
}

// Publish hands payload to every current subscriber of topic and returns how
// many accepted it. It never blocks and never retries.
func (h *Hub) Publish(ctx context.Context, topic string, payload any) int {
	s := h.shard(topic)
	s.mu.RLock()
	subs := make([]subscriber, 0, len(s.topics[topic]))
	for _, sub := range s.topics[topic] {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	if len(subs) == 0 {
		return 0
	}
	d := event.Delivery{Topic: topic, Payload: payload, At: h.now().UTC()}
	delivered := 0
	for _, sub := range subs {
		if err := sub.sink.Consume(ctx, d); err != nil {
			h.log.Debug("Delivery refused", "conn_id", sub.connID, "topic", topic, "error", err)
			continue
		}
		delivered++
	}
	if h.observer != nil {
		h.observer.IncPublished(topicKind(topic), delivered)
	}
	return delivered
}

// Topics lists the subscriptions of a connection.
func (h *Hub) Topics(connID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[connID]
	if !ok {
		return nil
	}
	topics := make([]string, 0, len(conn.topics))
	for t := range conn.topics {
		topics = append(topics, t)
	}
	return topics
}

// ConnectionIDs lists the live connections.
func (h *Hub) ConnectionIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.conns))
	for id := range h.conns {
		ids = append(ids, id)
	}
	return ids
}

// IsOnline reports whether userID has at least one live connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.users[userID] > 0
}

func (h *Hub) Stats() contract.HubStats {
	h.mu.Lock()
	stats := contract.HubStats{Connections: len(h.conns), Users: len(h.users)}
	h.mu.Unlock()
	for _, s := range h.shards {
		s.mu.RLock()
		stats.Topics += len(s.topics)
		s.mu.RUnlock()
	}
	return stats
}

func topicKind(topic string) string {
	switch {
	case event.IsGlobalTopic(topic):
		return "global"
	default:
		if _, ok := event.TopicOwner(topic); ok {
			return "user"
		}
		return "other"
	}
}

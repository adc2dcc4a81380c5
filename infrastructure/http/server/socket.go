package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"justus/domain/chat"
	"justus/domain/event"
	"justus/sink"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// inboundFrame is what a client writes on the socket.
type inboundFrame struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outboundFrame is what the write loop pushes to the client.
type outboundFrame struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// socketConn is one live persistent connection. Only the write loop writes
// to the websocket.
type socketConn struct {
	id       string
	identity chat.Identity
	ws       *websocket.Conn
	sink     *sink.SocketSink
	server   *Server
}

// handleSocket upgrades the request whatever the credential: a failed
// resolution leaves the connection anonymous.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	identity := s.gate.ResolveHandshake(r.Context(), r)
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Socket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	connID := uuid.NewString()
	c := &socketConn{
		id:       connID,
		identity: identity,
		ws:       ws,
		sink:     sink.NewSocketSink(s.log, connID, s.opts.ConnectionBufferSize, s.metrics),
		server:   s,
	}
	c.serve()
}

func (c *socketConn) serve() {
	s := c.server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, topic := range c.defaultTopics() {
		s.hub.Subscribe(c.id, c.identity.UserID, topic, c.sink)
	}
	s.log.Info("Socket connected", "conn_id", c.id, "user_id", c.identity.UserID, "anonymous", c.identity.IsAnonymous())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writeLoop(ctx)
	}()

	c.readLoop(ctx)
	s.hub.UnsubscribeAll(c.id)
	cancel()
	<-done
	_ = c.ws.Close()
	s.log.Info("Socket disconnected", "conn_id", c.id, "user_id", c.identity.UserID)
}

// defaultTopics are the inbox of an identity plus the global edit and
// delete topics.
func (c *socketConn) defaultTopics() []string {
	topics := []string{event.TopicEdited, event.TopicDeleted}
	if !c.identity.IsAnonymous() {
		topics = append([]string{event.UserTopic(c.identity.UserID)}, topics...)
	}
	return topics
}

func (c *socketConn) readLoop(ctx context.Context) {
	s := c.server
	pongWait := 2 * s.opts.PingInterval
	if s.opts.ReadLimit > 0 {
		c.ws.SetReadLimit(s.opts.ReadLimit)
	}
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Socket read failed", "conn_id", c.id, "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		if allowed, retryAfter := s.limiter.Allow(c.rateKey(), time.Now()); !allowed {
			s.metrics.IncRateLimited()
			s.log.Warn("Socket frame rate limited", "conn_id", c.id, "user_id", c.identity.UserID)
			c.sendError(ctx, "Too many messages, slow down", retryAfter)
			continue
		}

		var frame inboundFrame
		if err = json.Unmarshal(data, &frame); err != nil || frame.Action == "" {
			c.sendError(ctx, "Invalid frame", 0)
			continue
		}
		c.dispatch(ctx, frame)
	}
}

func (c *socketConn) writeLoop(ctx context.Context) {
	s := c.server
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.opts.WriteTimeout))
			return
		case d := <-c.sink.Deliveries():
			_ = c.ws.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := c.ws.WriteJSON(outboundFrame{Topic: d.Topic, Payload: d.Payload}); err != nil {
				s.log.Warn("Socket write failed", "conn_id", c.id, "topic", d.Topic, "error", err)
				// Unblock the read loop so the connection is torn down
				_ = c.ws.Close()
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.opts.WriteTimeout)); err != nil {
				_ = c.ws.Close()
				return
			}
		}
	}
}

// rateKey buckets identified users across their connections and anonymous
// connections one by one.
func (c *socketConn) rateKey() string {
	if c.identity.IsAnonymous() {
		return "conn:" + c.id
	}
	return "user:" + c.identity.UserID
}

// sendError goes through the connection's own queue, never through the hub.
func (c *socketConn) sendError(ctx context.Context, reason string, retryAfter time.Duration) {
	e := event.Event{Type: event.Error, Reason: reason}
	if retryAfter > 0 {
		e.RetryAfter = int((retryAfter + time.Second - 1) / time.Second)
	}
	_ = c.sink.Consume(ctx, event.Delivery{Topic: event.TopicErrors, Payload: e, At: time.Now().UTC()})
}

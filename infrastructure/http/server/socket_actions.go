package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"justus/domain/chat"
	"justus/domain/event"
	"justus/errors"
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
	actionSend        = "chat.send"
	actionEdit        = "chat.edit"
	actionDelete      = "chat.delete"
	actionTyping      = "chat.typing"
	actionRead        = "chat.read"
)

type socketSendPayload struct {
	sendRequest
	SenderID string `json:"senderId"`
}

type socketEditPayload struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	SenderID string `json:"senderId"`
}

type socketDeletePayload struct {
	ID       string `json:"id"`
	SenderID string `json:"senderId"`
}

type socketTypingPayload struct {
	ReceiverID string `json:"receiverId"`
	User       string `json:"user"`
}

type socketReadPayload struct {
	MessageID string `json:"messageId"`
	ReaderID  string `json:"readerId"`
}

func (c *socketConn) dispatch(ctx context.Context, frame inboundFrame) {
	switch frame.Action {
	case actionSubscribe:
		c.subscribe(ctx, frame.Topic)
	case actionUnsubscribe:
		c.server.hub.Unsubscribe(c.id, frame.Topic)
	case actionSend, actionEdit, actionDelete, actionTyping, actionRead:
		// An accepted operation outlives the connection that asked for it
		c.mutate(context.WithoutCancel(ctx), frame)
	default:
		c.sendError(ctx, "Unknown action "+frame.Action, 0)
	}
}

// subscribe refuses the inbox of another identity and the private errors
// topic.
func (c *socketConn) subscribe(ctx context.Context, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" || topic == event.TopicErrors {
		c.sendError(ctx, "Invalid topic", 0)
		return
	}
	if owner, ok := event.TopicOwner(topic); ok && owner != c.identity.UserID {
		c.sendError(ctx, "Forbidden topic", 0)
		return
	}
	c.server.hub.Subscribe(c.id, c.identity.UserID, topic, c.sink)
}

// mutate runs a state changing action. Failures are logged and dropped, the
// connection stays alive.
func (c *socketConn) mutate(ctx context.Context, frame inboundFrame) {
	s := c.server
	if c.identity.IsAnonymous() && !s.opts.AllowAnonymousSender {
		s.log.Warn("Anonymous socket action rejected", "conn_id", c.id, "action", frame.Action)
		return
	}

	var err error
	switch frame.Action {
	case actionSend:
		var p socketSendPayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			_, err = s.chat.SendMessage(ctx, chat.SendCommand{
				Draft:   p.draft(c.actor(p.SenderID)),
				Channel: chat.SocketChannel,
			})
		}
	case actionEdit:
		var p socketEditPayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			_, err = s.chat.EditMessage(ctx, chat.EditCommand{CallerID: c.actor(p.SenderID), MessageID: p.ID, Content: p.Content})
		}
	case actionDelete:
		var p socketDeletePayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			_, err = s.chat.DeleteMessage(ctx, chat.DeleteCommand{CallerID: c.actor(p.SenderID), MessageID: p.ID})
		}
	case actionTyping:
		var p socketTypingPayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			err = s.chat.Typing(ctx, chat.TypingCommand{SenderID: c.actor(p.User), ReceiverID: p.ReceiverID})
		}
	case actionRead:
		var p socketReadPayload
		if err = decodePayload(frame.Payload, &p); err == nil {
			_, err = s.chat.MarkMessageRead(ctx, chat.ReadMessageCommand{CallerID: c.actor(p.ReaderID), MessageID: p.MessageID})
		}
	}
	if err == nil {
		return
	}

	attrs := []any{"conn_id", c.id, "user_id", c.identity.UserID, "action", frame.Action, "error", err}
	if errors.MapToHTTPStatus(err) >= http.StatusInternalServerError {
		s.log.Error("Socket action failed", attrs...)
	} else {
		s.log.Warn("Socket action rejected", attrs...)
	}
}

// actor is the identity an action is attributed to. An anonymous connection
// only acts when client supplied identities are trusted.
func (c *socketConn) actor(claimed string) string {
	if !c.identity.IsAnonymous() {
		return c.identity.UserID
	}
	if c.server.opts.AllowAnonymousSender {
		return strings.TrimSpace(claimed)
	}
	return ""
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", errors.ErrValidation)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: invalid payload", errors.ErrValidation)
	}
	return nil
}

package sink

import (
	"context"
	"log/slog"

	"justus/domain/event"
)

// DropObserver is notified each time a delivery is discarded.
type DropObserver interface {
	IncDropped()
}

// SocketSink is the outbound queue of one live connection. The hub writes
// into it, the connection's write loop drains Deliveries.
type SocketSink struct {
	connID     string
	deliveries chan event.Delivery
	observer   DropObserver
	log        *slog.Logger
}

func NewSocketSink(log *slog.Logger, connID string, bufferSize int, observer DropObserver) *SocketSink {
	return &SocketSink{
		connID:     connID,
		deliveries: make(chan event.Delivery, bufferSize),
		observer:   observer,
		log:        log,
	}
}

// Consume never blocks: when the buffer is full the delivery is dropped,
// the client is expected to resync through the query endpoints.
func (s *SocketSink) Consume(ctx context.Context, d event.Delivery) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case s.deliveries <- d:
		return nil
	default:
		s.log.Warn("Connection buffer full, dropping delivery", "conn_id", s.connID, "topic", d.Topic)
		if s.observer != nil {
			s.observer.IncDropped()
		}
		return nil
	}
}

func (s *SocketSink) Deliveries() <-chan event.Delivery {
	return s.deliveries
}

//go:generate go run go.uber.org/mock/mockgen -source=backfill.go -destination=../../mocks/mock_backfill.go -package=mocks
package workers

import (
	"context"
	"log/slog"

	"justus/domain/event"
)

// DeliveryConfirmer marks what was waiting for a user as delivered and
// notifies the senders.
type DeliveryConfirmer interface {
	ConfirmDeliveries(ctx context.Context, userID string) (int, error)
}

// Presence tells whether a user still has a live connection.
type Presence interface {
	IsOnline(userID string) bool
}

// DeliveryBackfillWorker is the third path changing message state: when a
// user opens an inbox subscription, messages sent to them over the request
// path become delivered. A user gone again before the signal is handled keeps
// their messages pending for the next connection.
type DeliveryBackfillWorker struct {
	log       *slog.Logger
	connected <-chan event.Connected
	presence  Presence
	confirmer DeliveryConfirmer
}

func NewDeliveryBackfillWorker(log *slog.Logger, connected <-chan event.Connected, presence Presence, confirmer DeliveryConfirmer) *DeliveryBackfillWorker {
	return &DeliveryBackfillWorker{log: log, connected: connected, presence: presence, confirmer: confirmer}
}

func (w *DeliveryBackfillWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-w.connected:
			if !ok {
				return nil
			}
			if !w.presence.IsOnline(c.UserID) {
				w.log.Debug("Delivery backfill skipped, user went offline", "user_id", c.UserID)
				continue
			}
			n, err := w.confirmer.ConfirmDeliveries(ctx, c.UserID)
			if err != nil {
				// Logged and dropped, the next connection retries
				w.log.Error("Delivery backfill failed", "user_id", c.UserID, "error", err)
				continue
			}
			if n > 0 {
				w.log.Debug("Delivery backfill done", "user_id", c.UserID, "count", n)
			}
		}
	}
}

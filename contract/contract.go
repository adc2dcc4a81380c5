//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"justus/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives deliveries for one live connection.
// Consume must never block the publisher.
type EventSink interface {
	Consume(ctx context.Context, d event.Delivery) error
}

// Publisher is the side of the hub the services talk to.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) int
}

// IHub maps connections to the topics they listen on.
type IHub interface {
	Publisher
	Subscribe(connID, userID, topic string, sink EventSink)
	Unsubscribe(connID, topic string)
	UnsubscribeAll(connID string)
	Topics(connID string) []string
	Stats() HubStats
}

type HubStats struct {
	Connections int
	Users       int
	Topics      int
}

// Package runtime handles live connections and the background workers around
// them. It orchestrates the system without containing business logic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"justus/contract"
	"justus/domain/event"
	"justus/internal"
	"justus/moderation"
	"justus/observability"
	"justus/runtime/workers"
)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	hub            *Hub
	connected      chan event.Connected
	metrics        *observability.Metrics
	metricInterval time.Duration
	started        bool
}

// NewOrchestrator builds the hub. First inbox subscriptions are queued on a
// buffer of backfillBuffer events for the delivery backfill worker.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, metrics *observability.Metrics,
	backfillBuffer int, metricInterval time.Duration) *Orchestrator {
	connected := make(chan event.Connected, backfillBuffer)
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		hub:            NewHub(log, metrics, connected),
		connected:      connected,
		metrics:        metrics,
		metricInterval: metricInterval,
	}
}

func (o *Orchestrator) Hub() *Hub {
	return o.hub
}

// Start registers the workers and blocks until ctx is done or Stop is
// called. The confirmer is usually the chat service, which itself publishes
// through the hub, hence the late binding.
func (o *Orchestrator) Start(ctx context.Context, confirmer workers.DeliveryConfirmer) error {
	// 1. Preparation phase (no lock)
	backfill := workers.NewDeliveryBackfillWorker(o.log, o.connected, o.hub, confirmer)
	reporter := workers.NewReporterWorker(o.log, o.hub, o.metrics, o.metricInterval)

	// 2. Critical section
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true
	o.supervisor.Add(backfill, reporter)
	o.mu.Unlock()

	// 3. Execution phase (no lock)
	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) Stop() {
	o.supervisor.Stop()
}

// PrepareModeration loads the embedded dictionaries and builds the censoring
// automaton.
func PrepareModeration(log *slog.Logger, charReplacement string) (*moderation.Moderator, error) {
	char, err := internal.CharacterRune(charReplacement)
	if err != nil {
		return nil, err
	}
	dict, err := moderation.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("loading censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(dict.Words, char, log)
	if err != nil {
		return nil, fmt.Errorf("building moderator: %w", err)
	}
	log.Info("Moderation enabled", "words", len(dict.Words), "languages", dict.Languages)
	return moderator, nil
}

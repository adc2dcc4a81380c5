package workers

import (
	"context"
	"log/slog"
	"time"

	"justus/contract"
	"justus/observability"
)

// StatsSource is the part of the hub the reporter samples.
type StatsSource interface {
	Stats() contract.HubStats
}

// ReporterWorker periodically publishes hub gauges and logs a summary.
type ReporterWorker struct {
	log      *slog.Logger
	hub      StatsSource
	metrics  *observability.Metrics
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, hub StatsSource, metrics *observability.Metrics, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, hub: hub, metrics: metrics, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	startTime := time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report(startTime)
			return ctx.Err()
		case <-ticker.C:
			w.report(startTime)
		}
	}
}

func (w *ReporterWorker) report(startTime time.Time) {
	stats := w.hub.Stats()
	w.metrics.SetHubStats(stats.Connections, stats.Users, stats.Topics)
	snapshot := w.metrics.Snapshot()

	attrs := []any{
		"uptime", time.Since(startTime).Round(time.Second).String(),
		"connections", stats.Connections,
		"users", stats.Users,
		"topics", stats.Topics,
		"published", snapshot.Published,
		"dropped", snapshot.Dropped,
		"rate_limited", snapshot.RateLimited,
		"mem_mb", snapshot.AllocMemMb,
	}
	if proc, err := observability.SampleProcess(); err == nil {
		attrs = append(attrs, "rss_mb", proc.RSSMb, "cpu_percent", proc.CPUPercent)
	}
	w.log.Info("Runtime stats", attrs...)
}

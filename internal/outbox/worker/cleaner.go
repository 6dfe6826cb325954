package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"supstonad/internal/outbox/metrics"
)

// Pruner deletes published messages older than a cutoff.
type Pruner interface {
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner removes published outbox rows once they are older than the retention.
type Cleaner struct {
	store     Pruner
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewCleaner(store Pruner, interval, retention time.Duration, logger *slog.Logger, m *metrics.Metrics) *Cleaner {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{store: store, interval: interval, retention: retention, logger: logger, metrics: m, now: time.Now}
}

func (c *Cleaner) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if _, err := c.CleanOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.logger.WarnContext(ctx, "outbox cleaner tick failed", "error", err)
		}
	}
}

// CleanOnce deletes every message published before now minus the retention.
func (c *Cleaner) CleanOnce(ctx context.Context) (int64, error) {
	n, err := c.store.DeletePublishedBefore(ctx, c.now().Add(-c.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.logger.InfoContext(ctx, "outbox cleaner removed published messages", "count", n)
	}
	c.metrics.AddSlettet(n)
	return n, nil
}

// Package worker delivers outbox messages to Kafka and prunes delivered ones.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"supstonad/internal/outbox/metrics"
	"supstonad/internal/outbox/models"
	"supstonad/pkg/platform/circuit"
	"supstonad/pkg/platform/strings"
	"supstonad/pkg/platform/tx"
)

// Store is the part of the outbox store the relay needs.
type Store interface {
	Claim(ctx context.Context, now time.Time, limit int) ([]*models.Melding, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, nextAttemptAt time.Time) error
	CountPending(ctx context.Context) (int64, error)
}

// Publisher writes one record to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

type RelayOptions struct {
	Interval        time.Duration
	BatchSize       int
	MaxBackoff      time.Duration
	JitterMax       time.Duration
	PublishTimeout  time.Duration
	LastErrorMaxLen int
	// BreakerThreshold consecutive publish failures stop the relay from
	// publishing until BreakerCooldown has passed.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

func (o *RelayOptions) setDefaults() {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 5 * time.Minute
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 10 * time.Second
	}
	if o.LastErrorMaxLen <= 0 {
		o.LastErrorMaxLen = 1024
	}
	if o.BreakerThreshold <= 0 {
		o.BreakerThreshold = 5
	}
	if o.BreakerCooldown <= 0 {
		o.BreakerCooldown = 30 * time.Second
	}
}

// Relay polls due outbox messages and publishes them keyed by aggregate id.
// Delivery is at least once: a crash between publish and commit republishes.
type Relay struct {
	store     Store
	publisher Publisher
	runner    tx.Runner
	opts      RelayOptions
	logger    *slog.Logger
	metrics   *metrics.Metrics
	breaker   *circuit.Breaker
	now       func() time.Time
}

func NewRelay(store Store, publisher Publisher, runner tx.Runner, opts RelayOptions, logger *slog.Logger, m *metrics.Metrics) *Relay {
	opts.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	r := &Relay{
		store:     store,
		publisher: publisher,
		runner:    runner,
		opts:      opts,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
	r.breaker = circuit.New(
		circuit.WithFailureThreshold(opts.BreakerThreshold),
		circuit.WithCooldown(opts.BreakerCooldown),
		circuit.WithClock(func() time.Time { return r.now() }),
	)
	return r
}

// Run ticks until ctx is done. Failed ticks are logged and retried.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if _, err := r.ProcessOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			r.logger.WarnContext(ctx, "outbox relay tick failed", "error", err)
		}
	}
}

// ProcessOnce claims one batch and publishes it. It returns how many messages
// were published.
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.runner.RunInTx(ctx, func(ctx context.Context) error {
		claimed, err := r.store.Claim(ctx, r.now(), r.opts.BatchSize)
		if err != nil {
			return err
		}
		for _, m := range claimed {
			// rows left untouched stay due and are claimed again next tick
			if !r.breaker.Allow() {
				break
			}
			if r.publish(ctx, m) {
				published++
			}
		}
		return nil
	})
	r.metrics.SetBreakerAapen(r.breaker.IsOpen())
	if err != nil {
		return published, err
	}

	if pending, err := r.store.CountPending(ctx); err == nil {
		r.metrics.SetVentende(pending)
	}
	return published, nil
}

func (r *Relay) publish(ctx context.Context, m *models.Melding) bool {
	pubCtx, cancel := context.WithTimeout(ctx, r.opts.PublishTimeout)
	start := time.Now()
	err := r.publisher.Publish(pubCtx, m.Topic, []byte(m.AggregateID), m.Payload, m.Headers())
	cancel()
	r.metrics.ObservePublish(m.Topic, err == nil, time.Since(start).Seconds())

	if err == nil {
		if change := r.breaker.RecordSuccess(); change.Closed {
			r.logger.InfoContext(ctx, "outbox publisher circuit closed")
		}
		if markErr := r.store.MarkPublished(ctx, m.ID, r.now()); markErr != nil {
			r.logger.WarnContext(ctx, "outbox mark published failed",
				"outbox_id", m.ID.String(), "error", markErr)
			return false
		}
		return true
	}

	if change := r.breaker.RecordFailure(); change.Opened {
		r.logger.WarnContext(ctx, "outbox publisher circuit opened",
			"cooldown", r.opts.BreakerCooldown,
		)
	}
	attempts := m.Attempts + 1
	next := r.now().Add(backoff(attempts, r.opts.MaxBackoff) + jitter(r.opts.JitterMax))
	r.logger.WarnContext(ctx, "outbox publish failed",
		"outbox_id", m.ID.String(),
		"topic", m.Topic,
		"attempts", attempts,
		"next_attempt_at", next,
		"error", err,
	)
	if markErr := r.store.MarkFailed(ctx, m.ID, strings.Truncate(err.Error(), r.opts.LastErrorMaxLen), next); markErr != nil {
		r.logger.WarnContext(ctx, "outbox mark failed failed", "outbox_id", m.ID.String(), "error", markErr)
	}
	return false
}

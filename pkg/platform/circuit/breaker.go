// Package circuit is a consecutive-failure circuit breaker for calls to
// external systems.
package circuit

import (
	"sync"
	"time"
)

// StateChange reports a transition caused by a Record call.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker opens after a run of consecutive failures. While open, Allow rejects
// calls until the cooldown has passed and then lets a trial call through. A
// successful trial closes the breaker; a failed one starts a new cooldown.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time

	open      bool
	failures  int
	openUntil time.Time
}

type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown sets how long an open breaker rejects calls.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

func New(opts ...Option) *Breaker {
	b := &Breaker{
		failureThreshold: 5,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Allow reports whether a call may be attempted now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.open || !b.now().Before(b.openUntil)
}

// RecordFailure counts a failed call.
func (b *Breaker) RecordFailure() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.open {
		b.openUntil = b.now().Add(b.cooldown)
		return StateChange{}
	}
	if b.failures >= b.failureThreshold {
		b.open = true
		b.openUntil = b.now().Add(b.cooldown)
		return StateChange{Opened: true}
	}
	return StateChange{}
}

// RecordSuccess counts a successful call.
func (b *Breaker) RecordSuccess() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if !b.open {
		return StateChange{}
	}
	b.open = false
	b.openUntil = time.Time{}
	return StateChange{Closed: true}
}

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"supstonad/internal/outbox/models"
	"supstonad/pkg/platform/sentinel"
)

// InMemoryStore is the outbox for tests and local runs. Claim takes no locks;
// pair it with tx.MutexRunner.
type InMemoryStore struct {
	mu        sync.Mutex
	meldinger map[uuid.UUID]*models.Melding
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{meldinger: make(map[uuid.UUID]*models.Melding)}
}

func (s *InMemoryStore) Enqueue(_ context.Context, m *models.Melding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.meldinger[m.ID] = &cp
	return nil
}

func (s *InMemoryStore) Claim(_ context.Context, now time.Time, limit int) ([]*models.Melding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*models.Melding
	for _, m := range s.meldinger {
		if m.PublishedAt == nil && !m.NextAttemptAt.After(now) {
			cp := *m
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextAttemptAt.Equal(due[j].NextAttemptAt) {
			return due[i].NextAttemptAt.Before(due[j].NextAttemptAt)
		}
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meldinger[id]; ok && m.PublishedAt == nil {
		t := at
		m.PublishedAt = &t
		m.Attempts++
		m.LastError = ""
	}
	return nil
}

func (s *InMemoryStore) MarkFailed(_ context.Context, id uuid.UUID, lastError string, nextAttempt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meldinger[id]; ok && m.PublishedAt == nil {
		m.Attempts++
		m.LastError = lastError
		m.NextAttemptAt = nextAttempt
	}
	return nil
}

func (s *InMemoryStore) DeletePublishedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, m := range s.meldinger {
		if m.PublishedAt != nil && m.PublishedAt.Before(cutoff) {
			delete(s.meldinger, id)
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CountPending(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.meldinger {
		if m.PublishedAt == nil {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) Hent(_ context.Context, id uuid.UUID) (*models.Melding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meldinger[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

// Alle returns every entry, oldest first.
func (s *InMemoryStore) Alle() []*models.Melding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Melding, 0, len(s.meldinger))
	for _, m := range s.meldinger {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

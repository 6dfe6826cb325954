package store

import (
	"context"
	"sync"
	"time"

	id "supstonad/pkg/domain"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	beskyttet map[id.Fnr]string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{beskyttet: make(map[id.Fnr]string)}
}

func (s *InMemoryStore) ErBeskyttet(_ context.Context, fnr id.Fnr) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.beskyttet[fnr]
	return ok, nil
}

func (s *InMemoryStore) Registrer(_ context.Context, fnr id.Fnr, gradering string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beskyttet[fnr] = gradering
	return nil
}

func (s *InMemoryStore) Fjern(_ context.Context, fnr id.Fnr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.beskyttet, fnr)
	return nil
}

package store

import (
	"context"
	"fmt"
	"sync"

	"supstonad/internal/sak/models"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/sentinel"
)

// InMemoryStore is a map-backed sak store for tests and local runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	saker map[id.SakID]*models.Sak
	neste id.Saksnummer
}

// NewInMemory constructs an empty store. Saksnummer allocation starts at 2021.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{saker: make(map[id.SakID]*models.Sak), neste: id.FoersteSaksnummer}
}

func (s *InMemoryStore) Opprett(_ context.Context, sak *models.Sak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.saker {
		if existing.Fnr == sak.Fnr {
			return fmt.Errorf("sak for fnr: %w", sentinel.ErrAlreadyUsed)
		}
	}
	sak.Saksnummer = s.neste
	s.neste++
	cp := *sak
	s.saker[sak.ID] = &cp
	return nil
}

func (s *InMemoryStore) Hent(_ context.Context, sakID id.SakID) (*models.Sak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sak, ok := s.saker[sakID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sak
	return &cp, nil
}

func (s *InMemoryStore) HentForSaksnummer(_ context.Context, saksnummer id.Saksnummer) (*models.Sak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sak := range s.saker {
		if sak.Saksnummer == saksnummer {
			cp := *sak
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) HentFnr(ctx context.Context, sakID id.SakID) (id.Fnr, error) {
	sak, err := s.Hent(ctx, sakID)
	if err != nil {
		return "", err
	}
	return sak.Fnr, nil
}

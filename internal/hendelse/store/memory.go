package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"supstonad/internal/hendelse/models"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/sentinel"
)

type versjonKey struct {
	sak     id.SakID
	versjon models.Versjon
}

type meldingKey struct {
	typ       models.Type
	meldingID string
}

type konsumentKey struct {
	konsument models.KonsumentID
	hendelse  id.HendelseID
}

// InMemoryStore mirrors PostgresStore's constraints for unit tests and local runs.
type InMemoryStore struct {
	mu          sync.RWMutex
	hendelser   []*models.Hendelse
	byID        map[id.HendelseID]*models.Hendelse
	versjoner   map[versjonKey]struct{}
	meldinger   map[meldingKey]struct{}
	prosesserte map[konsumentKey]time.Time
}

// NewInMemory constructs an empty in-memory hendelse store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:        make(map[id.HendelseID]*models.Hendelse),
		versjoner:   make(map[versjonKey]struct{}),
		meldinger:   make(map[meldingKey]struct{}),
		prosesserte: make(map[konsumentKey]time.Time),
	}
}

func (s *InMemoryStore) Append(_ context.Context, h *models.Hendelse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[h.ID]; ok {
		return fmt.Errorf("hendelse %s: %w", h.ID, sentinel.ErrAlreadyUsed)
	}
	vk := versjonKey{sak: h.SakID, versjon: h.Versjon}
	if h.HarSak() {
		if _, ok := s.versjoner[vk]; ok {
			return fmt.Errorf("sak %s versjon %d: %w", h.SakID, h.Versjon, sentinel.ErrConflict)
		}
	}
	mk := meldingKey{typ: h.Type, meldingID: h.MeldingID}
	if h.MeldingID != "" {
		if _, ok := s.meldinger[mk]; ok {
			return fmt.Errorf("melding %s: %w", h.MeldingID, sentinel.ErrAlreadyUsed)
		}
		s.meldinger[mk] = struct{}{}
	}
	if h.HarSak() {
		s.versjoner[vk] = struct{}{}
	}
	cp := *h
	s.hendelser = append(s.hendelser, &cp)
	s.byID[h.ID] = &cp
	return nil
}

func (s *InMemoryStore) Hent(_ context.Context, hendelseID id.HendelseID) (*models.Hendelse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byID[hendelseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *InMemoryStore) HentForSak(_ context.Context, sakID id.SakID, typer ...models.Type) ([]*models.Hendelse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Hendelse
	for _, h := range s.hendelser {
		if h.SakID != sakID {
			continue
		}
		if len(typer) > 0 && !slices.Contains(typer, h.Type) {
			continue
		}
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Versjon < out[j].Versjon })
	return out, nil
}

func (s *InMemoryStore) HentSisteVersjon(_ context.Context, sakID id.SakID) (models.Versjon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var siste models.Versjon
	for _, h := range s.hendelser {
		if h.SakID == sakID && h.Versjon > siste {
			siste = h.Versjon
		}
	}
	return siste, nil
}

func (s *InMemoryStore) HentUtenSak(_ context.Context, typ models.Type) ([]*models.Hendelse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Hendelse
	for _, h := range s.hendelser {
		if !h.HarSak() && h.Type == typ {
			cp := *h
			out = append(out, &cp)
		}
	}
	sortByTidspunkt(out)
	return out, nil
}

func (s *InMemoryStore) HentUprosesserte(_ context.Context, konsument models.KonsumentID, typ models.Type, etter id.HendelseID, limit int) ([]id.HendelseID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cursor, harCursor := s.byID[etter]
	var kandidater []*models.Hendelse
	for _, h := range s.hendelser {
		if h.Type != typ {
			continue
		}
		if harCursor && !foer(cursor, h) {
			continue
		}
		if _, done := s.prosesserte[konsumentKey{konsument: konsument, hendelse: h.ID}]; done {
			continue
		}
		kandidater = append(kandidater, h)
	}
	sortByTidspunkt(kandidater)
	if limit > 0 && len(kandidater) > limit {
		kandidater = kandidater[:limit]
	}
	ids := make([]id.HendelseID, len(kandidater))
	for i, h := range kandidater {
		ids[i] = h.ID
	}
	return ids, nil
}

func (s *InMemoryStore) MarkerSomProsessert(_ context.Context, konsument models.KonsumentID, hendelseID id.HendelseID, tidspunkt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := konsumentKey{konsument: konsument, hendelse: hendelseID}
	if _, ok := s.prosesserte[key]; !ok {
		s.prosesserte[key] = tidspunkt
	}
	return nil
}

func sortByTidspunkt(hs []*models.Hendelse) {
	sort.SliceStable(hs, func(i, j int) bool { return foer(hs[i], hs[j]) })
}

// foer orders by (tidspunkt, id), the order Postgres uses for uuids.
func foer(a, b *models.Hendelse) bool {
	if !a.Tidspunkt.Equal(b.Tidspunkt) {
		return a.Tidspunkt.Before(b.Tidspunkt)
	}
	return a.ID.String() < b.ID.String()
}

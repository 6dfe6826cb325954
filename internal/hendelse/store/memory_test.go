package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"supstonad/internal/hendelse/models"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) sakshendelse(sakID id.SakID, versjon models.Versjon, typ models.Type) *models.Hendelse {
	h, err := models.NySakshendelse(sakID, versjon, typ, uuid.New(), s.now, map[string]int{"v": int(versjon)}, models.Metadata{})
	s.Require().NoError(err)
	return h
}

func (s *InMemoryStoreSuite) TestVersionUniquenessPerSak() {
	sakID := id.NewSakID()
	s.Require().NoError(s.store.Append(s.ctx, s.sakshendelse(sakID, 1, "A")))

	s.Run("same version on same sak conflicts", func() {
		err := s.store.Append(s.ctx, s.sakshendelse(sakID, 1, "B"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same version on another sak is fine", func() {
		s.NoError(s.store.Append(s.ctx, s.sakshendelse(id.NewSakID(), 1, "A")))
	})

	s.Run("siste versjon follows appends", func() {
		s.Require().NoError(s.store.Append(s.ctx, s.sakshendelse(sakID, 2, "B")))
		v, err := s.store.HentSisteVersjon(s.ctx, sakID)
		s.Require().NoError(err)
		s.Equal(models.Versjon(2), v)
	})
}

func (s *InMemoryStoreSuite) TestHentForSakFiltersAndOrders() {
	sakID := id.NewSakID()
	s.Require().NoError(s.store.Append(s.ctx, s.sakshendelse(sakID, 2, "B")))
	s.Require().NoError(s.store.Append(s.ctx, s.sakshendelse(sakID, 1, "A")))
	s.Require().NoError(s.store.Append(s.ctx, s.sakshendelse(sakID, 3, "A")))

	all, err := s.store.HentForSak(s.ctx, sakID)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]models.Versjon{1, 2, 3}, []models.Versjon{all[0].Versjon, all[1].Versjon, all[2].Versjon})

	onlyA, err := s.store.HentForSak(s.ctx, sakID, "A")
	s.Require().NoError(err)
	s.Len(onlyA, 2)
}

func (s *InMemoryStoreSuite) TestMeldingDeduplication() {
	first, err := models.NyHendelseUtenSak("RAATT", s.now, "topic/0/7", "<xml/>", models.Metadata{})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(s.ctx, first))

	again, err := models.NyHendelseUtenSak("RAATT", s.now, "topic/0/7", "<xml/>", models.Metadata{})
	s.Require().NoError(err)
	s.ErrorIs(s.store.Append(s.ctx, again), sentinel.ErrAlreadyUsed)

	utenSak, err := s.store.HentUtenSak(s.ctx, "RAATT")
	s.Require().NoError(err)
	s.Len(utenSak, 1)
}

func (s *InMemoryStoreSuite) TestKonsumentBookkeeping() {
	const konsument models.KonsumentID = "TestKonsument"
	var ids []id.HendelseID
	for i := range 3 {
		h, err := models.NyHendelseUtenSak("RAATT", s.now.Add(time.Duration(i)*time.Minute), "", i, models.Metadata{})
		s.Require().NoError(err)
		s.Require().NoError(s.store.Append(s.ctx, h))
		ids = append(ids, h.ID)
	}

	got, err := s.store.HentUprosesserte(s.ctx, konsument, "RAATT", id.HendelseID{}, 2)
	s.Require().NoError(err)
	s.Equal(ids[:2], got)

	s.Require().NoError(s.store.MarkerSomProsessert(s.ctx, konsument, ids[0], s.now))
	s.Require().NoError(s.store.MarkerSomProsessert(s.ctx, konsument, ids[0], s.now))

	got, err = s.store.HentUprosesserte(s.ctx, konsument, "RAATT", id.HendelseID{}, 10)
	s.Require().NoError(err)
	s.Equal(ids[1:], got)

	other, err := s.store.HentUprosesserte(s.ctx, "AnnenKonsument", "RAATT", id.HendelseID{}, 10)
	s.Require().NoError(err)
	s.Len(other, 3)

	etter, err := s.store.HentUprosesserte(s.ctx, konsument, "RAATT", ids[1], 10)
	s.Require().NoError(err)
	s.Equal(ids[2:], etter, "paging starts after the cursor")
}

func (s *InMemoryStoreSuite) TestHentUnknown() {
	_, err := s.store.Hent(s.ctx, id.NewHendelseID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

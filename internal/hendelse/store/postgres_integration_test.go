//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"supstonad/internal/hendelse/models"
	"supstonad/internal/hendelse/store"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func (s *PostgresStoreSuite) nySak() id.SakID {
	sakID := id.NewSakID()
	_, err := s.postgres.DB.ExecContext(s.ctx,
		`INSERT INTO sak (id, fnr, opprettet) VALUES ($1, $2, now())`,
		uuid.UUID(sakID), fmt.Sprintf("%011d", rand.Int64N(1e11)))
	s.Require().NoError(err)
	return sakID
}

func (s *PostgresStoreSuite) hendelse(sakID id.SakID, versjon models.Versjon) *models.Hendelse {
	h, err := models.NySakshendelse(sakID, versjon, "TEST", uuid.New(), time.Now(), map[string]string{"k": "v"}, models.Metadata{Ident: "Z990001"})
	s.Require().NoError(err)
	return h
}

// TestConcurrentAppendSameVersion verifies that exactly one writer wins a version.
func (s *PostgresStoreSuite) TestConcurrentAppendSameVersion() {
	sakID := s.nySak()
	const writers = 20

	var wg sync.WaitGroup
	var ok, conflicts atomic.Int32
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Append(s.ctx, s.hendelse(sakID, 1))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), ok.Load())
	s.Equal(int32(writers-1), conflicts.Load())
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	sakID := s.nySak()
	h := s.hendelse(sakID, 1)
	s.Require().NoError(s.store.Append(s.ctx, h))

	got, err := s.store.Hent(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(h.ID, got.ID)
	s.Equal(sakID, got.SakID)
	s.Equal(models.Versjon(1), got.Versjon)
	s.Equal("Z990001", got.Meta.Ident)
	s.JSONEq(`{"k":"v"}`, string(got.Data))

	v, err := s.store.HentSisteVersjon(s.ctx, sakID)
	s.Require().NoError(err)
	s.Equal(models.Versjon(1), v)

	list, err := s.store.HentForSak(s.ctx, sakID, "TEST", "OTHER")
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *PostgresStoreSuite) TestMeldingIDDeduplication() {
	first, err := models.NyHendelseUtenSak("RAATT_KRAVGRUNNLAG", time.Now(), "kravgrunnlag/0/1", "<xml/>", models.Metadata{})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(s.ctx, first))

	dup, err := models.NyHendelseUtenSak("RAATT_KRAVGRUNNLAG", time.Now(), "kravgrunnlag/0/1", "<xml/>", models.Metadata{})
	s.Require().NoError(err)
	s.ErrorIs(s.store.Append(s.ctx, dup), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestKonsument() {
	h, err := models.NyHendelseUtenSak("RAATT_KRAVGRUNNLAG", time.Now(), "kravgrunnlag/0/2", "<xml/>", models.Metadata{})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(s.ctx, h))

	ids, err := s.store.HentUprosesserte(s.ctx, "Knytt", "RAATT_KRAVGRUNNLAG", id.HendelseID{}, 10)
	s.Require().NoError(err)
	s.Equal([]id.HendelseID{h.ID}, ids)

	s.Require().NoError(s.store.MarkerSomProsessert(s.ctx, "Knytt", h.ID, time.Now()))
	s.Require().NoError(s.store.MarkerSomProsessert(s.ctx, "Knytt", h.ID, time.Now()))

	ids, err = s.store.HentUprosesserte(s.ctx, "Knytt", "RAATT_KRAVGRUNNLAG", id.HendelseID{}, 10)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *PostgresStoreSuite) TestKonsumentPaging() {
	start := time.Now().Truncate(time.Millisecond)
	var want []id.HendelseID
	for i := range 3 {
		h, err := models.NyHendelseUtenSak("RAATT_PAGING", start.Add(time.Duration(i)*time.Second), fmt.Sprintf("paging/0/%d", i), "<xml/>", models.Metadata{})
		s.Require().NoError(err)
		s.Require().NoError(s.store.Append(s.ctx, h))
		want = append(want, h.ID)
	}

	first, err := s.store.HentUprosesserte(s.ctx, "Knytt", "RAATT_PAGING", id.HendelseID{}, 2)
	s.Require().NoError(err)
	s.Equal(want[:2], first)

	rest, err := s.store.HentUprosesserte(s.ctx, "Knytt", "RAATT_PAGING", first[len(first)-1], 2)
	s.Require().NoError(err)
	s.Equal(want[2:], rest)
}

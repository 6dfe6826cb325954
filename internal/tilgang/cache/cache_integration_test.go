//go:build integration

package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"supstonad/internal/tilgang/cache"
	id "supstonad/pkg/domain"
	"supstonad/pkg/testutil/containers"
)

type countingTilgang struct {
	calls  int
	answer bool
}

func (c *countingTilgang) HarTilgang(context.Context, id.NavIdent, []id.Rolle, id.Fnr) (bool, error) {
	c.calls++
	return c.answer, nil
}

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *countingTilgang
	cache *cache.PersonTilgang
	ctx   context.Context
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.ctx = context.Background()
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.inner = &countingTilgang{answer: false}
	s.cache = cache.New(s.inner, s.redis.Client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *CacheSuite) TestCachesDecision() {
	for range 3 {
		ok, err := s.cache.HarTilgang(s.ctx, "Z990001", nil, "12345678901")
		s.Require().NoError(err)
		s.False(ok)
	}
	s.Equal(1, s.inner.calls)
}

func (s *CacheSuite) TestStrengtFortroligIsSeparateEntry() {
	_, err := s.cache.HarTilgang(s.ctx, "Z990001", nil, "12345678901")
	s.Require().NoError(err)
	_, err = s.cache.HarTilgang(s.ctx, "Z990001", []id.Rolle{id.RolleStrengtFortrolig}, "12345678901")
	s.Require().NoError(err)
	s.Equal(2, s.inner.calls)
}

func (s *CacheSuite) TestInvalider() {
	_, err := s.cache.HarTilgang(s.ctx, "Z990001", nil, "12345678901")
	s.Require().NoError(err)

	s.Require().NoError(s.cache.Invalider(s.ctx, "12345678901"))
	s.inner.answer = true

	ok, err := s.cache.HarTilgang(s.ctx, "Z990001", nil, "12345678901")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(2, s.inner.calls)
}

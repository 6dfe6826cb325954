package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now     time.Time
	breaker *Breaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.breaker = New(
		WithFailureThreshold(3),
		WithCooldown(time.Minute),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *BreakerSuite) fail(n int) {
	for range n {
		s.breaker.RecordFailure()
	}
}

func (s *BreakerSuite) TestOpensOnThreshold() {
	s.True(s.breaker.Allow())

	s.fail(2)
	s.False(s.breaker.IsOpen())
	s.True(s.breaker.Allow())

	change := s.breaker.RecordFailure()
	s.True(change.Opened)
	s.True(s.breaker.IsOpen())
	s.False(s.breaker.Allow())
}

func (s *BreakerSuite) TestSuccessClearsFailureRun() {
	s.fail(2)
	s.Equal(StateChange{}, s.breaker.RecordSuccess())

	s.fail(2)
	s.False(s.breaker.IsOpen(), "only consecutive failures count")
	s.fail(1)
	s.True(s.breaker.IsOpen())
}

func (s *BreakerSuite) TestCooldown() {
	s.fail(3)

	s.Run("rejects calls until the cooldown has passed", func() {
		s.now = s.now.Add(59 * time.Second)
		s.False(s.breaker.Allow())
		s.now = s.now.Add(time.Second)
		s.True(s.breaker.Allow())
	})

	s.Run("failed trial call starts a new cooldown", func() {
		s.Equal(StateChange{}, s.breaker.RecordFailure())
		s.True(s.breaker.IsOpen())
		s.False(s.breaker.Allow())
		s.now = s.now.Add(time.Minute)
		s.True(s.breaker.Allow())
	})

	s.Run("successful trial call closes", func() {
		change := s.breaker.RecordSuccess()
		s.True(change.Closed)
		s.False(s.breaker.IsOpen())
		s.True(s.breaker.Allow())
	})

	s.Run("closed breaker needs a full run of failures to reopen", func() {
		s.fail(2)
		s.False(s.breaker.IsOpen())
	})
}

func TestDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New(WithClock(func() time.Time { return now }))
	for range 4 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen())
	assert.True(t, b.RecordFailure().Opened, "opens on the fifth failure")

	now = now.Add(29 * time.Second)
	assert.False(t, b.Allow())
	now = now.Add(time.Second)
	assert.True(t, b.Allow())
}

package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supstonad/internal/outbox/metrics"
	"supstonad/internal/outbox/models"
	"supstonad/internal/outbox/store"
)

func TestCleanOnceRemovesOldPublishedMessages(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s := store.NewInMemory()

	gammel := enqueueAt(t, s, now.Add(-10*24*time.Hour))
	require.NoError(t, s.MarkPublished(ctx, gammel.ID, now.Add(-9*24*time.Hour)))
	ny := enqueueAt(t, s, now.Add(-time.Hour))
	require.NoError(t, s.MarkPublished(ctx, ny.ID, now.Add(-time.Hour)))
	upublisert := enqueueAt(t, s, now.Add(-30*24*time.Hour))

	m := metrics.New(prometheus.NewRegistry())
	c := NewCleaner(s, time.Hour, 7*24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)), m)
	c.now = func() time.Time { return now }

	n, err := c.CleanOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Slettet))

	_, err = s.Hent(ctx, gammel.ID)
	assert.Error(t, err)
	_, err = s.Hent(ctx, ny.ID)
	assert.NoError(t, err)
	_, err = s.Hent(ctx, upublisert.ID)
	assert.NoError(t, err, "unpublished messages are never removed")
}

func enqueueAt(t *testing.T, s *store.InMemoryStore, at time.Time) *models.Melding {
	t.Helper()
	m, err := models.NyMelding("sak", "1", "TEST", "topic", struct{}{}, at)
	require.NoError(t, err)
	require.NoError(t, s.Enqueue(context.Background(), m))
	return m
}

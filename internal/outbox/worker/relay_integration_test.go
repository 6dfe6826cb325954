//go:build integration

package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"supstonad/internal/outbox/metrics"
	"supstonad/internal/outbox/models"
	"supstonad/internal/outbox/store"
	"supstonad/internal/outbox/worker"
	"supstonad/internal/platform/kafka/producer"
	"supstonad/internal/platform/postgres"
	"supstonad/pkg/testutil/containers"
)

const vedtakTopic = "supstonad.tilbakekrevingsvedtak.test"

type RelayIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	store    *store.PostgresStore
	producer *producer.Producer
	relay    *worker.Relay
	ctx      context.Context
}

func TestRelayIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelayIntegrationSuite))
}

func (s *RelayIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	s.Require().NoError(s.redpanda.CreateTopic(s.ctx, vedtakTopic))

	p, err := producer.New([]string{s.redpanda.Broker})
	s.Require().NoError(err)
	s.producer = p

	s.store = store.NewPostgres(s.postgres.DB)
	s.relay = worker.NewRelay(s.store, s.producer, postgres.NewTxRunner(s.postgres.DB, 10*time.Second),
		worker.RelayOptions{}, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.New(prometheus.NewRegistry()))
}

func (s *RelayIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *RelayIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "outbox"))
}

func (s *RelayIntegrationSuite) TestEnqueuedMessageReachesTopic() {
	m, err := models.NyMelding("tilbakekrevingsbehandling", "behandling-1", "TILBAKEKREVINGSBEHANDLING_IVERKSATT",
		vedtakTopic, map[string]string{"behandlingId": "behandling-1"}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Enqueue(s.ctx, m))

	n, err := s.relay.ProcessOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	stored, err := s.store.Hent(s.ctx, m.ID)
	s.Require().NoError(err)
	s.NotNil(stored.PublishedAt)

	pending, err := s.store.CountPending(s.ctx)
	s.Require().NoError(err)
	s.Zero(pending)

	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(vedtakTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Second)
	defer cancel()
	var rec *kgo.Record
	for rec == nil {
		fetches := client.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "no record before timeout")
		fetches.EachRecord(func(r *kgo.Record) {
			if string(r.Key) == "behandling-1" {
				rec = r
			}
		})
	}
	s.JSONEq(`{"behandlingId":"behandling-1"}`, string(rec.Value))
}

func (s *RelayIntegrationSuite) TestCleanerDeletesOldPublishedRows() {
	m, err := models.NyMelding("sak", "1", "TEST", vedtakTopic, struct{}{}, time.Now().Add(-48*time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Enqueue(s.ctx, m))
	s.Require().NoError(s.store.MarkPublished(s.ctx, m.ID, time.Now().Add(-47*time.Hour)))

	cleaner := worker.NewCleaner(s.store, time.Hour, 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	n, err := cleaner.CleanOnce(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

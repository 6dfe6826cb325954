package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	hendelsestore "supstonad/internal/hendelse/store"
	"supstonad/internal/kravgrunnlag/adapters"
	kravgrunnlagmetrics "supstonad/internal/kravgrunnlag/metrics"
	kravgrunnlagservice "supstonad/internal/kravgrunnlag/service"
	kravgrunnlagworker "supstonad/internal/kravgrunnlag/worker"
	outboxmetrics "supstonad/internal/outbox/metrics"
	outboxstore "supstonad/internal/outbox/store"
	outboxworker "supstonad/internal/outbox/worker"
	"supstonad/internal/platform/config"
	"supstonad/internal/platform/httpserver"
	"supstonad/internal/platform/kafka/consumer"
	"supstonad/internal/platform/kafka/producer"
	"supstonad/internal/platform/logger"
	"supstonad/internal/platform/metrics"
	"supstonad/internal/platform/postgres"
	"supstonad/internal/platform/redis"
	sakhandler "supstonad/internal/sak/handler"
	sakmetrics "supstonad/internal/sak/metrics"
	sakservice "supstonad/internal/sak/service"
	sakstore "supstonad/internal/sak/store"
	tilbakekrevinghandler "supstonad/internal/tilbakekreving/handler"
	tilbakekrevingmetrics "supstonad/internal/tilbakekreving/metrics"
	tilbakekrevingservice "supstonad/internal/tilbakekreving/service"
	"supstonad/internal/tilgang/cache"
	tilganghandler "supstonad/internal/tilgang/handler"
	tilgangservice "supstonad/internal/tilgang/service"
	tilgangstore "supstonad/internal/tilgang/store"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/httputil"
	"supstonad/pkg/platform/middleware/auth"
	request "supstonad/pkg/platform/middleware/request"
	"supstonad/pkg/platform/middleware/requesttime"
)

// main wires dependencies and runs the HTTP server and background workers until
// SIGINT or SIGTERM. Business logic lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("supstonad stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("supstonad stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	// cache.New treats a nil interface as "no cache"; a typed nil would not be.
	var cacheClient goredis.Cmdable
	if redisClient != nil {
		defer redisClient.Close()
		cacheClient = redisClient.Client
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)

	runner := postgres.NewTxRunner(db, cfg.Database.TxTimeout)
	hendelser := hendelsestore.NewPostgres(db)
	saker := sakstore.NewPostgres(db)
	beskyttede := tilgangstore.NewPostgres(db)
	outbox := outboxstore.NewPostgres(db)

	personTilgang := cache.New(tilgangservice.NewRegisterTilgang(beskyttede), cacheClient, cfg.Tilgang.CacheTTL, log)
	tilgang := tilgangservice.New(saker, personTilgang, tilgangservice.WithLogger(log))
	drift := tilgangservice.NewDrift(beskyttede, personTilgang, log)

	kravgrunnlag := kravgrunnlagservice.New(hendelser, saker, runner,
		kravgrunnlagservice.WithLogger(log),
		kravgrunnlagservice.WithMetrics(kravgrunnlagmetrics.New(reg)),
		kravgrunnlagservice.WithBatchSize(cfg.Jobs.KnyttBatchSize),
	)
	tilbakekreving := tilbakekrevingservice.New(hendelser, kravgrunnlag, tilgang, outbox, runner,
		tilbakekrevingservice.WithLogger(log),
		tilbakekrevingservice.WithMetrics(tilbakekrevingmetrics.New(reg)),
		tilbakekrevingservice.WithVedtakTopic(cfg.Kafka.TilbakekrevingsTopic),
	)
	sak := sakservice.New(saker, hendelser, tilgang, runner,
		sakservice.WithLogger(log),
		sakservice.WithMetrics(sakmetrics.New(reg)),
		sakservice.WithKravgrunnlagOversikt(tilbakekreving),
	)

	validator := auth.NewHMACValidator(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience, map[string]id.Rolle{
		cfg.Auth.SaksbehandlerGroup:    id.RolleSaksbehandler,
		cfg.Auth.AttestantGroup:        id.RolleAttestant,
		cfg.Auth.DriftGroup:            id.RolleDrift,
		cfg.Auth.StrengtFortroligGroup: id.RolleStrengtFortrolig,
	})

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recover(log))
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)

	r.Handle("/metrics", httpMetrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(validator, log))
		sakhandler.New(sak, log).Register(r)
		tilbakekrevinghandler.New(tilbakekreving, log).Register(r)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRolle(id.RolleDrift, log))
			tilganghandler.New(drift, log).Register(r)
		})
	})

	srv := httpserver.New(cfg.Server, http.TimeoutHandler(r, cfg.Server.RequestTimeout, `{"error":"timeout"}`))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return kravgrunnlagworker.NewLinker(kravgrunnlag, cfg.Jobs.KnyttInterval, log).Run(ctx)
	})

	if cfg.Kafka.Enabled {
		router := consumer.NewRouter(log, nil)
		router.Register(cfg.Kafka.KravgrunnlagTopic, adapters.NewMottakHandler(kravgrunnlag, log))
		c, err := consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Group:   cfg.Kafka.ConsumerGroup,
			Topics:  router.Topics(),
		}, router, log)
		if err != nil {
			return err
		}
		defer c.Close()

		p, err := producer.New(cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer p.Close()

		om := outboxmetrics.New(reg)
		relay := outboxworker.NewRelay(outbox, p, runner, outboxworker.RelayOptions{
			Interval:   cfg.Jobs.OutboxInterval,
			BatchSize:  cfg.Jobs.OutboxBatchSize,
			MaxBackoff: cfg.Jobs.OutboxMaxBackoff,
		}, log, om)
		cleaner := outboxworker.NewCleaner(outbox, 0, cfg.Jobs.OutboxRetention, log, om)

		g.Go(func() error { return c.Run(ctx) })
		g.Go(func() error { return relay.Run(ctx) })
		g.Go(func() error { return cleaner.Run(ctx) })
	} else {
		log.Warn("kafka disabled: kravgrunnlag are not consumed and vedtak stay in the outbox")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Package service ingests raw claim messages, links them to saker and serves the
// folded claim view of a sak.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	hendelse "supstonad/internal/hendelse/models"
	"supstonad/internal/kravgrunnlag/metrics"
	"supstonad/internal/kravgrunnlag/models"
	sak "supstonad/internal/sak/models"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/platform/tx"
	"supstonad/pkg/requestcontext"
)

var ErrTomMelding = dErrors.NewKode(dErrors.CodeValidation, "tom_melding", "kravgrunnlagmeldingen er tom")

// HendelseStore is the part of the hendelse log the claim module uses.
type HendelseStore interface {
	Append(ctx context.Context, h *hendelse.Hendelse) error
	Hent(ctx context.Context, hendelseID id.HendelseID) (*hendelse.Hendelse, error)
	HentForSak(ctx context.Context, sakID id.SakID, typer ...hendelse.Type) ([]*hendelse.Hendelse, error)
	HentSisteVersjon(ctx context.Context, sakID id.SakID) (hendelse.Versjon, error)
	HentUprosesserte(ctx context.Context, konsument hendelse.KonsumentID, typ hendelse.Type, etter id.HendelseID, limit int) ([]id.HendelseID, error)
	MarkerSomProsessert(ctx context.Context, konsument hendelse.KonsumentID, hendelseID id.HendelseID, tidspunkt time.Time) error
}

// SakOppslag resolves the sak a claim's saksnummer refers to.
type SakOppslag interface {
	HentForSaksnummer(ctx context.Context, saksnummer id.Saksnummer) (*sak.Sak, error)
}

// Service handles claim ingestion, linking and reads.
type Service struct {
	hendelser HendelseStore
	saker     SakOppslag
	tx        tx.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	batchSize int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBatchSize bounds how many raw claims one linker pass handles.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// New constructs a Service.
func New(hendelser HendelseStore, saker SakOppslag, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		hendelser: hendelser,
		saker:     saker,
		tx:        runner,
		logger:    slog.Default(),
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Motta stores a claim message exactly as received. A melding id seen before is
// a no-op, so redelivery is safe.
func (s *Service) Motta(ctx context.Context, meldingID, melding string, mottatt time.Time) error {
	if strings.TrimSpace(melding) == "" {
		return ErrTomMelding
	}
	if meldingID == "" {
		return dErrors.New(dErrors.CodeValidation, "melding id is required")
	}

	data := models.RaattKravgrunnlag{MeldingID: meldingID, Melding: melding, Mottatt: mottatt.UTC()}
	h, err := hendelse.NyHendelseUtenSak(models.HendelseRaattKravgrunnlag, mottatt, meldingID, data, hendelse.MetadataFra(ctx))
	if err != nil {
		return err
	}
	if err := s.hendelser.Append(ctx, h); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.metrics.IncrementMottatt("duplikat")
			s.logger.InfoContext(ctx, "kravgrunnlag already received",
				"melding_id", meldingID,
			)
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store kravgrunnlag")
	}

	s.metrics.IncrementMottatt("ny")
	s.logger.InfoContext(ctx, "kravgrunnlag received",
		"melding_id", meldingID,
		"hendelse_id", h.ID.String(),
	)
	return nil
}

// HentPaaSak folds the claims linked to a sak.
func (s *Service) HentPaaSak(ctx context.Context, sakID id.SakID) (*models.PaaSak, error) {
	hs, err := s.hendelser.HentForSak(ctx, sakID, models.HendelseKnyttetTilSak)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load kravgrunnlag hendelser")
	}
	knyttede := make([]models.KnyttetHendelse, 0, len(hs))
	for _, h := range hs {
		k, err := models.DecodeKnyttet(h)
		if err != nil {
			return nil, err
		}
		knyttede = append(knyttede, k)
	}
	return models.Fold(knyttede), nil
}

func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC()
}

// Package service creates and reads saker. A sak is created together with its
// first hendelse so the sak version starts at 1.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	hendelse "supstonad/internal/hendelse/models"
	"supstonad/internal/sak/metrics"
	"supstonad/internal/sak/models"
	tilgangservice "supstonad/internal/tilgang/service"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/platform/tx"
	"supstonad/pkg/requestcontext"
)

var (
	ErrSakFinnesAllerede = dErrors.NewKode(dErrors.CodeConflict, "sak_finnes_allerede", "personen har allerede en sak")
	ErrFantIkkeSak       = tilgangservice.ErrFantIkkeSak
)

// Store persists saker.
type Store interface {
	Opprett(ctx context.Context, sak *models.Sak) error
	Hent(ctx context.Context, sakID id.SakID) (*models.Sak, error)
	HentForSaksnummer(ctx context.Context, saksnummer id.Saksnummer) (*models.Sak, error)
}

// HendelseStore is the part of the hendelse log the sak module writes and reads.
type HendelseStore interface {
	Append(ctx context.Context, h *hendelse.Hendelse) error
	HentSisteVersjon(ctx context.Context, sakID id.SakID) (hendelse.Versjon, error)
}

// Tilgang performs access checks.
type Tilgang interface {
	Sjekk(ctx context.Context, sakID id.SakID, roller ...id.Rolle) error
	SjekkPerson(ctx context.Context, fnr id.Fnr, roller ...id.Rolle) error
}

// KravgrunnlagOversikt builds the claim view of a sak.
type KravgrunnlagOversikt interface {
	KravgrunnlagOversikt(ctx context.Context, sakID id.SakID) (*models.Kravgrunnlagsoversikt, error)
}

// Service handles sak operations.
type Service struct {
	saker     Store
	hendelser HendelseStore
	tilgang   Tilgang
	oversikt  KravgrunnlagOversikt
	tx        tx.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

// WithKravgrunnlagOversikt enables the claim view in Hent. Without it the view is empty.
func WithKravgrunnlagOversikt(o KravgrunnlagOversikt) Option {
	return func(s *Service) {
		s.oversikt = o
	}
}

// New constructs a Service.
func New(saker Store, hendelser HendelseStore, tilgang Tilgang, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		saker:     saker,
		hendelser: hendelser,
		tilgang:   tilgang,
		tx:        runner,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Opprett creates a sak for fnr and records SAK_OPPRETTET at versjon 1.
func (s *Service) Opprett(ctx context.Context, fnr id.Fnr) (*models.Sak, error) {
	if err := s.tilgang.SjekkPerson(ctx, fnr, id.RolleSaksbehandler); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sak := models.NySak(fnr, now)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.saker.Opprett(ctx, sak); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return ErrSakFinnesAllerede
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create sak")
		}
		h, err := hendelse.NySakshendelse(sak.ID, hendelse.FoersteVersjon, models.HendelseSakOpprettet,
			uuid.UUID(sak.ID), now, models.SakOpprettet{Saksnummer: sak.Saksnummer, Fnr: sak.Fnr}, hendelse.MetadataFra(ctx))
		if err != nil {
			return err
		}
		if err := s.hendelser.Append(ctx, h); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record sak opprettet")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sak.Versjon = hendelse.FoersteVersjon

	s.metrics.IncrementSakOpprettet()
	s.logger.InfoContext(ctx, "sak opprettet",
		"sak_id", sak.ID.String(),
		"saksnummer", sak.Saksnummer.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return sak, nil
}

// Hent returns the sak with its current version and claim view.
func (s *Service) Hent(ctx context.Context, sakID id.SakID) (*models.SakDetaljer, error) {
	defer s.metrics.ObserveHent(time.Now())
	if err := s.tilgang.Sjekk(ctx, sakID, id.RolleSaksbehandler, id.RolleAttestant); err != nil {
		return nil, err
	}
	sak, err := s.saker.Hent(ctx, sakID)
	if err != nil {
		return nil, s.translate(err, "failed to load sak")
	}
	return s.detaljer(ctx, sak)
}

// HentForSaksnummer is Hent keyed by saksnummer.
func (s *Service) HentForSaksnummer(ctx context.Context, saksnummer id.Saksnummer) (*models.SakDetaljer, error) {
	defer s.metrics.ObserveHent(time.Now())
	sak, err := s.saker.HentForSaksnummer(ctx, saksnummer)
	if err != nil {
		return nil, s.translate(err, "failed to load sak")
	}
	if err := s.tilgang.Sjekk(ctx, sak.ID, id.RolleSaksbehandler, id.RolleAttestant); err != nil {
		return nil, err
	}
	return s.detaljer(ctx, sak)
}

func (s *Service) detaljer(ctx context.Context, sak *models.Sak) (*models.SakDetaljer, error) {
	versjon, err := s.hendelser.HentSisteVersjon(ctx, sak.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sak versjon")
	}
	sak.Versjon = versjon

	out := &models.SakDetaljer{Sak: *sak}
	if s.oversikt != nil {
		oversikt, err := s.oversikt.KravgrunnlagOversikt(ctx, sak.ID)
		if err != nil {
			return nil, err
		}
		out.Kravgrunnlag = *oversikt
	}
	return out, nil
}

func (s *Service) translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return ErrFantIkkeSak
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

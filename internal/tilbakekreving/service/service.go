// Package service runs the tilbakekrevingsbehandling workflow. Every command
// checks tilgang, then the caller's sak version, then the behandling's state,
// and appends exactly one hendelse at the next sak version.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	hendelse "supstonad/internal/hendelse/models"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	outbox "supstonad/internal/outbox/models"
	sak "supstonad/internal/sak/models"
	"supstonad/internal/tilbakekreving/metrics"
	"supstonad/internal/tilbakekreving/models"
	tilgangservice "supstonad/internal/tilgang/service"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/platform/tx"
	"supstonad/pkg/requestcontext"
)

var tracer = otel.Tracer("supstonad/tilbakekreving")

var (
	ErrIkkeTilgang                     = tilgangservice.ErrIkkeTilgang
	ErrFantIkkeSak                     = tilgangservice.ErrFantIkkeSak
	ErrUlikVersjon                     = dErrors.NewKode(dErrors.CodeConflict, "ulik_versjon", "saken er endret siden den ble hentet")
	ErrFantIkkeBehandling              = dErrors.NewKode(dErrors.CodeNotFound, "fant_ikke_behandling", "fant ikke tilbakekrevingsbehandling")
	ErrFinnesAlleredeEnAapenBehandling = dErrors.NewKode(dErrors.CodeConflict, "finnes_allerede_en_aapen_behandling", "saken har allerede en åpen tilbakekrevingsbehandling")
	ErrIngenUtestaaendeKravgrunnlag    = dErrors.NewKode(dErrors.CodeInvariantViolation, "ingen_utestaaende_kravgrunnlag", "saken har ikke et utestående kravgrunnlag")
	ErrUgyldigTilstand                 = dErrors.NewKode(dErrors.CodeInvariantViolation, "ugyldig_tilstand", "operasjonen er ikke tillatt i behandlingens tilstand")
	ErrKravgrunnlagetErUendret         = dErrors.NewKode(dErrors.CodeInvariantViolation, "kravgrunnlaget_er_uendret", "behandlingen bruker allerede det utestående kravgrunnlaget")
	ErrKravgrunnlagetHarEndretSeg      = dErrors.NewKode(dErrors.CodeConflict, "kravgrunnlaget_har_endret_seg", "kravgrunnlaget har endret seg siden behandlingen ble oppdatert")
	ErrKravgrunnlagetErSperret         = dErrors.NewKode(dErrors.CodeConflict, "kravgrunnlaget_er_sperret", "kravgrunnlaget er sperret")

	ErrAttestantOgSaksbehandlerKanIkkeVaereSammePerson = dErrors.NewKode(dErrors.CodeForbidden,
		"attestant_og_saksbehandler_kan_ikke_vaere_samme_person", "attestant og saksbehandler kan ikke være samme person")
)

const DefaultVedtakTopic = "oppdrag.tilbakekrevingsvedtak"

// HendelseStore is the part of the hendelse log the workflow uses.
type HendelseStore interface {
	Append(ctx context.Context, h *hendelse.Hendelse) error
	HentForSak(ctx context.Context, sakID id.SakID, typer ...hendelse.Type) ([]*hendelse.Hendelse, error)
	HentSisteVersjon(ctx context.Context, sakID id.SakID) (hendelse.Versjon, error)
}

// Kravgrunnlag serves the folded claim view of a sak.
type Kravgrunnlag interface {
	HentPaaSak(ctx context.Context, sakID id.SakID) (*kravgrunnlag.PaaSak, error)
}

// Tilgang performs access checks.
type Tilgang interface {
	Sjekk(ctx context.Context, sakID id.SakID, roller ...id.Rolle) error
}

// Outbox stores messages in the caller's transaction for later publishing.
type Outbox interface {
	Enqueue(ctx context.Context, m *outbox.Melding) error
}

// Service handles tilbakekrevingsbehandling commands and reads.
type Service struct {
	hendelser    HendelseStore
	kravgrunnlag Kravgrunnlag
	tilgang      Tilgang
	outbox       Outbox
	tx           tx.Runner
	vedtakTopic  string
	logger       *slog.Logger
	metrics      *metrics.Metrics
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

// WithVedtakTopic sets the topic iverksatte vedtak are published to.
func WithVedtakTopic(topic string) Option {
	return func(s *Service) {
		if topic != "" {
			s.vedtakTopic = topic
		}
	}
}

// New constructs a Service.
func New(hendelser HendelseStore, krav Kravgrunnlag, tilgang Tilgang, ob Outbox, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		hendelser:    hendelser,
		kravgrunnlag: krav,
		tilgang:      tilgang,
		outbox:       ob,
		tx:           runner,
		vedtakTopic:  DefaultVedtakTopic,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hent returns one behandling on the sak.
func (s *Service) Hent(ctx context.Context, sakID id.SakID, behandlingID id.BehandlingID) (*models.Tilbakekrevingsbehandling, error) {
	ctx, span := tracer.Start(ctx, "tilbakekreving.Hent", trace.WithAttributes(
		attribute.String("sak_id", sakID.String()),
		attribute.String("behandling_id", behandlingID.String()),
	))
	defer span.End()

	if err := s.tilgang.Sjekk(ctx, sakID, id.RolleSaksbehandler, id.RolleAttestant); err != nil {
		return nil, err
	}
	t, err := s.hentTilstand(ctx, sakID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return t.behandling(behandlingID)
}

// HentForSak returns every behandling on the sak, oldest first.
func (s *Service) HentForSak(ctx context.Context, sakID id.SakID) ([]*models.Tilbakekrevingsbehandling, error) {
	ctx, span := tracer.Start(ctx, "tilbakekreving.HentForSak", trace.WithAttributes(
		attribute.String("sak_id", sakID.String()),
	))
	defer span.End()

	if err := s.tilgang.Sjekk(ctx, sakID, id.RolleSaksbehandler, id.RolleAttestant); err != nil {
		return nil, err
	}
	t, err := s.hentTilstand(ctx, sakID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return t.behandlinger, nil
}

// KravgrunnlagOversikt builds the claim view shown on the sak. The caller has
// already checked tilgang.
func (s *Service) KravgrunnlagOversikt(ctx context.Context, sakID id.SakID) (*sak.Kravgrunnlagsoversikt, error) {
	t, err := s.hentTilstand(ctx, sakID)
	if err != nil {
		return nil, err
	}
	return &sak.Kravgrunnlagsoversikt{
		Gjeldende:   t.kravgrunnlag.Gjeldende(),
		Utestaaende: t.utestaaende(),
		Alle:        t.kravgrunnlag.Alle(),
	}, nil
}

// sakstilstand is everything a command validates against, read in its transaction.
type sakstilstand struct {
	sakID        id.SakID
	versjon      hendelse.Versjon
	kravgrunnlag *kravgrunnlag.PaaSak
	hendelser    []*hendelse.Hendelse
	behandlinger []*models.Tilbakekrevingsbehandling
}

func (s *Service) hentTilstand(ctx context.Context, sakID id.SakID) (*sakstilstand, error) {
	versjon, err := s.hendelser.HentSisteVersjon(ctx, sakID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sak versjon")
	}
	krav, err := s.kravgrunnlag.HentPaaSak(ctx, sakID)
	if err != nil {
		return nil, err
	}
	hs, err := s.hendelser.HentForSak(ctx, sakID, models.Typer()...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load behandling hendelser")
	}
	t := &sakstilstand{sakID: sakID, versjon: versjon, kravgrunnlag: krav, hendelser: hs}
	if err := t.fold(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *sakstilstand) fold() error {
	behandlinger, err := models.Fold(t.hendelser, t.kravgrunnlag.Hent)
	if err != nil {
		return err
	}
	t.behandlinger = behandlinger
	return nil
}

// utestaaende is the claim a new or refreshed behandling would use.
func (t *sakstilstand) utestaaende() *kravgrunnlag.Kravgrunnlag {
	return t.kravgrunnlag.Utestaaende(models.IverksatteKravgrunnlag(t.behandlinger))
}

func (t *sakstilstand) behandling(behandlingID id.BehandlingID) (*models.Tilbakekrevingsbehandling, error) {
	for _, b := range t.behandlinger {
		if b.ID == behandlingID {
			return b, nil
		}
	}
	return nil, ErrFantIkkeBehandling
}

// endring is what a command decided to record.
type endring struct {
	typ  hendelse.Type
	data models.Hendelsesdata
	// etter runs in the same transaction once the hendelse is stored.
	etter func(ctx context.Context, b *models.Tilbakekrevingsbehandling) error
}

// kommando is the generic command pipeline. beslutt sees the behandling as
// currently folded; a nil behandlingID means the command creates one.
func (s *Service) kommando(
	ctx context.Context,
	operasjon string,
	sakID id.SakID,
	behandlingID id.BehandlingID,
	klientensSisteSaksversjon hendelse.Versjon,
	roller []id.Rolle,
	beslutt func(ctx context.Context, t *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error),
) (_ *models.Tilbakekrevingsbehandling, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "tilbakekreving."+operasjon, trace.WithAttributes(
		attribute.String("sak_id", sakID.String()),
		attribute.String("behandling_id", behandlingID.String()),
		attribute.Int64("klientens_siste_saksversjon", int64(klientensSisteSaksversjon)),
	))
	defer span.End()
	defer func() {
		s.metrics.ObserveKommando(operasjon, resultat(err), start)
		if err != nil {
			recordError(span, err)
		}
	}()

	if err := s.tilgang.Sjekk(ctx, sakID, roller...); err != nil {
		return nil, err
	}

	var oppdatert *models.Tilbakekrevingsbehandling
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		t, err := s.hentTilstand(ctx, sakID)
		if err != nil {
			return err
		}
		if t.versjon != klientensSisteSaksversjon {
			return ErrUlikVersjon
		}

		var b *models.Tilbakekrevingsbehandling
		if !behandlingID.IsNil() {
			if b, err = t.behandling(behandlingID); err != nil {
				return err
			}
		}

		e, err := beslutt(ctx, t, b)
		if err != nil {
			return err
		}
		if b == nil {
			behandlingID = id.NewBehandlingID()
		}
		e.data.Utfoerer = requestcontext.NavIdent(ctx)

		h, err := hendelse.NySakshendelse(sakID, t.versjon.Neste(), e.typ, uuid.UUID(behandlingID),
			requestcontext.Now(ctx), e.data, hendelse.MetadataFra(ctx))
		if err != nil {
			return err
		}
		if err := s.hendelser.Append(ctx, h); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return ErrUlikVersjon
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record "+string(e.typ))
		}

		t.hendelser = append(t.hendelser, h)
		if err := t.fold(); err != nil {
			return err
		}
		if oppdatert, err = t.behandling(behandlingID); err != nil {
			return err
		}
		if e.etter != nil {
			return e.etter(ctx, oppdatert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tilbakekrevingsbehandling oppdatert",
		"operasjon", operasjon,
		"sak_id", sakID.String(),
		"behandling_id", oppdatert.ID.String(),
		"tilstand", string(oppdatert.Tilstand),
		"versjon", int64(oppdatert.Versjon),
		"request_id", requestcontext.RequestID(ctx),
	)
	return oppdatert, nil
}

func resultat(err error) string {
	if err == nil {
		return "ok"
	}
	if de, ok := dErrors.As(err); ok {
		if de.Kode != "" {
			return de.Kode
		}
		return string(de.Code)
	}
	return string(dErrors.CodeInternal)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

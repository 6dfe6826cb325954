package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	hendelse "supstonad/internal/hendelse/models"
	hendelsestore "supstonad/internal/hendelse/store"
	"supstonad/internal/kravgrunnlag/kravgrunnlagtest"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	kravgrunnlagservice "supstonad/internal/kravgrunnlag/service"
	outboxstore "supstonad/internal/outbox/store"
	sakmodels "supstonad/internal/sak/models"
	sakstore "supstonad/internal/sak/store"
	"supstonad/internal/tilbakekreving/metrics"
	"supstonad/internal/tilbakekreving/models"
	tilgangservice "supstonad/internal/tilgang/service"
	tilgangstore "supstonad/internal/tilgang/store"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/tx"
	"supstonad/pkg/requestcontext"
)

const (
	saksbehandlerIdent id.NavIdent = "Z990001"
	attestantIdent     id.NavIdent = "Z990002"
)

type TilbakekrevingServiceSuite struct {
	suite.Suite
	now          time.Time
	meldinger    int
	hendelser    *hendelsestore.InMemoryStore
	saker        *sakstore.InMemoryStore
	outbox       *outboxstore.InMemoryStore
	kravgrunnlag *kravgrunnlagservice.Service
	service      *Service
	sak          *sakmodels.Sak
}

func TestTilbakekrevingServiceSuite(t *testing.T) {
	suite.Run(t, new(TilbakekrevingServiceSuite))
}

func (s *TilbakekrevingServiceSuite) SetupTest() {
	s.now = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	s.meldinger = 0
	s.hendelser = hendelsestore.NewInMemory()
	s.saker = sakstore.NewInMemory()
	s.outbox = outboxstore.NewInMemory()
	runner := &tx.MutexRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.kravgrunnlag = kravgrunnlagservice.New(s.hendelser, s.saker, runner, kravgrunnlagservice.WithLogger(logger))
	tilgang := tilgangservice.New(s.saker, tilgangservice.NewRegisterTilgang(tilgangstore.NewInMemory()), tilgangservice.WithLogger(logger))
	s.service = New(s.hendelser, s.kravgrunnlag, tilgang, s.outbox, runner,
		WithLogger(logger),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
		WithVedtakTopic("vedtak"),
	)
	s.sak = s.opprettSak("12345678901")
}

func (s *TilbakekrevingServiceSuite) ctx(ident id.NavIdent, roller ...id.Rolle) context.Context {
	ctx := requestcontext.WithBruker(context.Background(), ident, roller)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *TilbakekrevingServiceSuite) saksbehandler() context.Context {
	return s.ctx(saksbehandlerIdent, id.RolleSaksbehandler)
}

func (s *TilbakekrevingServiceSuite) attestant() context.Context {
	return s.ctx(attestantIdent, id.RolleAttestant)
}

func (s *TilbakekrevingServiceSuite) opprettSak(fnr id.Fnr) *sakmodels.Sak {
	sak := sakmodels.NySak(fnr, s.now)
	s.Require().NoError(s.saker.Opprett(context.Background(), sak))
	h, err := hendelse.NySakshendelse(sak.ID, hendelse.FoersteVersjon, sakmodels.HendelseSakOpprettet,
		uuid.UUID(sak.ID), s.now, sakmodels.SakOpprettet{Saksnummer: sak.Saksnummer, Fnr: fnr}, hendelse.Metadata{})
	s.Require().NoError(err)
	s.Require().NoError(s.hendelser.Append(context.Background(), h))
	return sak
}

func periode(fom, tom string) kravgrunnlagtest.Periode {
	p := kravgrunnlagtest.StandardPeriode()
	p.Fom, p.Tom = fom, tom
	return p
}

// motta delivers a ledger message and runs the linker.
func (s *TilbakekrevingServiceSuite) motta(melding string) {
	s.meldinger++
	ctx := requestcontext.WithTime(context.Background(), s.now)
	s.Require().NoError(s.kravgrunnlag.Motta(ctx, fmt.Sprintf("kravgrunnlag/0/%d", s.meldinger), melding, s.now))
	res, err := s.kravgrunnlag.KnyttTilSak(ctx)
	s.Require().NoError(err)
	s.Require().Equal(1, res.Knyttet)
}

func (s *TilbakekrevingServiceSuite) mottaKravgrunnlag(kontrollfelt string, perioder ...kravgrunnlagtest.Periode) {
	if len(perioder) == 0 {
		perioder = []kravgrunnlagtest.Periode{kravgrunnlagtest.StandardPeriode()}
	}
	s.motta(kravgrunnlagtest.DetaljerXML(kravgrunnlagtest.Detaljer{
		KravgrunnlagID: "298604",
		VedtakID:       "436204",
		Status:         "NY",
		Saksnummer:     s.sak.Saksnummer.String(),
		Kontrollfelt:   kontrollfelt,
		UtbetalingID:   "268e62fb-3079-4e8d-ab32-ff9fb9",
		Perioder:       perioder,
	}))
}

func (s *TilbakekrevingServiceSuite) versjon() hendelse.Versjon {
	v, err := s.hendelser.HentSisteVersjon(context.Background(), s.sak.ID)
	s.Require().NoError(err)
	return v
}

func (s *TilbakekrevingServiceSuite) kommando(b *models.Tilbakekrevingsbehandling) Kommando {
	return Kommando{SakID: b.SakID, BehandlingID: b.ID, KlientensSisteSaksversjon: s.versjon()}
}

func (s *TilbakekrevingServiceSuite) opprett() *models.Tilbakekrevingsbehandling {
	b, err := s.service.Opprett(s.saksbehandler(), s.sak.ID, s.versjon())
	s.Require().NoError(err)
	return b
}

func (s *TilbakekrevingServiceSuite) tilAttestering(vurdering models.Vurdering) *models.Tilbakekrevingsbehandling {
	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")
	b := s.opprett()
	b, err := s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
		{Maaned: "2024-01", Vurdering: vurdering},
	})
	s.Require().NoError(err)
	b, err = s.service.OppdaterVedtaksbrev(s.saksbehandler(), s.kommando(b), "Du må betale tilbake")
	s.Require().NoError(err)
	b, err = s.service.SendTilAttestering(s.saksbehandler(), s.kommando(b))
	s.Require().NoError(err)
	return b
}

func (s *TilbakekrevingServiceSuite) TestOpprett() {
	s.Run("no outstanding claim", func() {
		_, err := s.service.Opprett(s.saksbehandler(), s.sak.ID, s.versjon())
		s.ErrorIs(err, ErrIngenUtestaaendeKravgrunnlag)
	})

	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")

	s.Run("requires the saksbehandler role", func() {
		_, err := s.service.Opprett(s.attestant(), s.sak.ID, s.versjon())
		s.ErrorIs(err, ErrIkkeTilgang)
	})

	s.Run("unknown sak", func() {
		_, err := s.service.Opprett(s.saksbehandler(), id.NewSakID(), 1)
		s.ErrorIs(err, ErrFantIkkeSak)
	})

	s.Run("stale version writes nothing", func() {
		foer := s.versjon()
		_, err := s.service.Opprett(s.saksbehandler(), s.sak.ID, foer-1)
		s.ErrorIs(err, ErrUlikVersjon)
		s.Equal(foer, s.versjon())
	})

	s.Run("creates behandling from the outstanding claim", func() {
		foer := s.versjon()
		b := s.opprett()
		s.Equal(models.TilstandOpprettet, b.Tilstand)
		s.Equal(foer.Neste(), b.OpprettetVersjon)
		s.Equal(saksbehandlerIdent, b.OpprettetAv)
		s.Equal("436204", b.Kravgrunnlag.EksternVedtakID)
		s.Equal(s.now, b.Opprettet)
	})

	s.Run("only one open behandling per sak", func() {
		_, err := s.service.Opprett(s.saksbehandler(), s.sak.ID, s.versjon())
		s.ErrorIs(err, ErrFinnesAlleredeEnAapenBehandling)
	})
}

func (s *TilbakekrevingServiceSuite) TestVurder() {
	s.mottaKravgrunnlag("2024-03-01-10.00.00.000000",
		periode("2024-01-01", "2024-01-31"), periode("2024-02-01", "2024-02-29"))
	b := s.opprett()

	s.Run("must cover exactly the claim's months", func() {
		_, err := s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
			{Maaned: "2024-01", Vurdering: models.SkalTilbakekreve},
		})
		s.ErrorIs(err, models.ErrVurderingeneStemmerIkkeMedKravgrunnlaget)

		_, err = s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
			{Maaned: "2024-01", Vurdering: models.SkalTilbakekreve},
			{Maaned: "2024-03", Vurdering: models.SkalTilbakekreve},
		})
		s.ErrorIs(err, models.ErrVurderingeneStemmerIkkeMedKravgrunnlaget)
	})

	s.Run("stores sorted vurderinger and computes amounts", func() {
		vurdert, err := s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
			{Maaned: "2024-02", Vurdering: models.SkalIkkeTilbakekreve},
			{Maaned: "2024-01", Vurdering: models.SkalTilbakekreve},
		})
		s.Require().NoError(err)
		s.Equal(models.TilstandUnderBehandling, vurdert.Tilstand)
		s.Equal(kravgrunnlag.Maaned("2024-01"), vurdert.Vurderinger[0].Maaned)

		beloep, err := vurdert.Beloep()
		s.Require().NoError(err)
		brutto, skatt, netto := models.Sum(beloep)
		s.True(decimal.NewFromInt(2000).Equal(brutto), brutto.String())
		s.True(decimal.NewFromInt(880).Equal(skatt), skatt.String())
		s.True(decimal.NewFromInt(1120).Equal(netto), netto.String())
	})

	s.Run("stale version", func() {
		_, err := s.service.Vurder(s.saksbehandler(), Kommando{SakID: b.SakID, BehandlingID: b.ID, KlientensSisteSaksversjon: b.Versjon},
			[]models.Vurderingsperiode{
				{Maaned: "2024-01", Vurdering: models.SkalTilbakekreve},
				{Maaned: "2024-02", Vurdering: models.SkalTilbakekreve},
			})
		s.ErrorIs(err, ErrUlikVersjon)
	})

	s.Run("unknown behandling", func() {
		k := s.kommando(b)
		k.BehandlingID = id.NewBehandlingID()
		_, err := s.service.Vurder(s.saksbehandler(), k, nil)
		s.ErrorIs(err, ErrFantIkkeBehandling)
	})
}

func (s *TilbakekrevingServiceSuite) TestForhaandsvarselOgNotat() {
	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")
	b := s.opprett()

	b, err := s.service.Forhaandsvarsle(s.saksbehandler(), s.kommando(b), "Vi vurderer å kreve tilbake")
	s.Require().NoError(err)
	b, err = s.service.OppdaterNotat(s.saksbehandler(), s.kommando(b), "Ringt bruker")
	s.Require().NoError(err)

	s.Require().Len(b.Forhaandsvarsler, 1)
	s.Equal("Vi vurderer å kreve tilbake", b.Forhaandsvarsler[0].Fritekst)
	s.Equal(saksbehandlerIdent, b.Forhaandsvarsler[0].Av)
	s.Equal("Ringt bruker", b.Notat)
	s.Equal(s.versjon(), b.Versjon)
}

func (s *TilbakekrevingServiceSuite) TestSendTilAttestering() {
	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")
	b := s.opprett()

	s.Run("requires vurderinger", func() {
		_, err := s.service.SendTilAttestering(s.saksbehandler(), s.kommando(b))
		s.ErrorIs(err, models.ErrManglerVurderinger)
	})

	s.Run("requires a vedtaksbrev when something is recouped", func() {
		var err error
		b, err = s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
			{Maaned: "2024-01", Vurdering: models.SkalTilbakekreve},
		})
		s.Require().NoError(err)
		_, err = s.service.SendTilAttestering(s.saksbehandler(), s.kommando(b))
		s.ErrorIs(err, models.ErrManglerVedtaksbrev)
	})

	s.Run("no vedtaksbrev needed when nothing is recouped", func() {
		var err error
		b, err = s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
			{Maaned: "2024-01", Vurdering: models.SkalIkkeTilbakekreve},
		})
		s.Require().NoError(err)
		b, err = s.service.SendTilAttestering(s.saksbehandler(), s.kommando(b))
		s.Require().NoError(err)
		s.Equal(models.TilstandTilAttestering, b.Tilstand)
		s.Equal(saksbehandlerIdent, b.SendtTilAttesteringAv)
	})

	s.Run("cannot be edited while til attestering", func() {
		_, err := s.service.OppdaterNotat(s.saksbehandler(), s.kommando(b), "notat")
		s.ErrorIs(err, ErrUgyldigTilstand)
	})
}

func (s *TilbakekrevingServiceSuite) TestNyttKravgrunnlag() {
	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")
	b := s.opprett()
	b, err := s.service.Vurder(s.saksbehandler(), s.kommando(b), []models.Vurderingsperiode{
		{Maaned: "2024-01", Vurdering: models.SkalIkkeTilbakekreve},
	})
	s.Require().NoError(err)

	s.Run("unchanged claim", func() {
		_, err := s.service.OppdaterKravgrunnlag(s.saksbehandler(), s.kommando(b))
		s.ErrorIs(err, ErrKravgrunnlagetErUendret)
	})

	s.mottaKravgrunnlag("2024-02-01-11.00.00.000000",
		periode("2024-01-01", "2024-01-31"), periode("2024-02-01", "2024-02-29"))

	s.Run("send til attestering notices the newer claim", func() {
		_, err := s.service.SendTilAttestering(s.saksbehandler(), s.kommando(b))
		s.ErrorIs(err, ErrKravgrunnlagetHarEndretSeg)
	})

	s.Run("oppdater switches claim and clears vurderinger", func() {
		oppdatert, err := s.service.OppdaterKravgrunnlag(s.saksbehandler(), s.kommando(b))
		s.Require().NoError(err)
		s.Empty(oppdatert.Vurderinger)
		s.Len(oppdatert.Kravgrunnlag.Grunnlagsperioder, 2)
		s.NotEqual(b.Kravgrunnlag.HendelseID, oppdatert.Kravgrunnlag.HendelseID)
	})
}

func (s *TilbakekrevingServiceSuite) TestIverksett() {
	b := s.tilAttestering(models.SkalTilbakekreve)

	s.Run("requires the attestant role", func() {
		_, err := s.service.Iverksett(s.ctx(attestantIdent, id.RolleSaksbehandler), s.kommando(b))
		s.ErrorIs(err, ErrIkkeTilgang)
	})

	s.Run("attestant cannot be the saksbehandler", func() {
		_, err := s.service.Iverksett(s.ctx(saksbehandlerIdent, id.RolleAttestant), s.kommando(b))
		s.ErrorIs(err, ErrAttestantOgSaksbehandlerKanIkkeVaereSammePerson)
		s.Empty(s.outbox.Alle())
	})

	s.Run("iverksetter and queues the vedtak", func() {
		iverksatt, err := s.service.Iverksett(s.attestant(), s.kommando(b))
		s.Require().NoError(err)
		s.Equal(models.TilstandIverksatt, iverksatt.Tilstand)
		siste, ok := iverksatt.Attesteringer.Siste()
		s.Require().True(ok)
		s.Equal(models.AttesteringIverksatt, siste.Utfall)
		s.Equal(attestantIdent, siste.Attestant)

		meldinger := s.outbox.Alle()
		s.Require().Len(meldinger, 1)
		s.Equal("vedtak", meldinger[0].Topic)
		s.Equal(b.ID.String(), meldinger[0].AggregateID)

		var vedtak models.Tilbakekrevingsvedtak
		s.Require().NoError(json.Unmarshal(meldinger[0].Payload, &vedtak))
		s.Equal(saksbehandlerIdent, vedtak.Saksbehandler)
		s.Equal(attestantIdent, vedtak.Attestant)
		s.Equal(s.sak.Saksnummer, vedtak.Saksnummer)
		s.True(decimal.NewFromInt(1120).Equal(vedtak.SumNetto), vedtak.SumNetto.String())
	})

	s.Run("terminal behandling cannot be changed", func() {
		_, err := s.service.Avbryt(s.saksbehandler(), s.kommando(b), "for sent")
		s.ErrorIs(err, ErrUgyldigTilstand)
	})

	s.Run("consumed claim is no longer outstanding", func() {
		_, err := s.service.Opprett(s.saksbehandler(), s.sak.ID, s.versjon())
		s.ErrorIs(err, ErrIngenUtestaaendeKravgrunnlag)

		oversikt, err := s.service.KravgrunnlagOversikt(context.Background(), s.sak.ID)
		s.Require().NoError(err)
		s.NotNil(oversikt.Gjeldende)
		s.Nil(oversikt.Utestaaende)
		s.Len(oversikt.Alle, 1)
	})
}

func (s *TilbakekrevingServiceSuite) TestIverksettWithStaleVersion() {
	b := s.tilAttestering(models.SkalTilbakekreve)
	foer := s.versjon()

	k := s.kommando(b)
	k.KlientensSisteSaksversjon = foer - 1
	_, err := s.service.Iverksett(s.attestant(), k)
	s.ErrorIs(err, ErrUlikVersjon)

	s.Equal(foer, s.versjon(), "no hendelse recorded")
	s.Empty(s.outbox.Alle())
	pending, err := s.outbox.CountPending(context.Background())
	s.Require().NoError(err)
	s.Zero(pending)

	hentet, err := s.service.Hent(s.attestant(), s.sak.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(models.TilstandTilAttestering, hentet.Tilstand)
}

func (s *TilbakekrevingServiceSuite) TestCommandsWithoutBehandlingID() {
	b := s.tilAttestering(models.SkalTilbakekreve)
	k := Kommando{SakID: s.sak.ID, KlientensSisteSaksversjon: s.versjon()}

	_, err := s.service.Vurder(s.saksbehandler(), k, nil)
	s.ErrorIs(err, ErrFantIkkeBehandling)
	_, err = s.service.Iverksett(s.attestant(), k)
	s.ErrorIs(err, ErrFantIkkeBehandling)
	_, err = s.service.Avbryt(s.saksbehandler(), k, "ingen behandling")
	s.ErrorIs(err, ErrFantIkkeBehandling)

	s.Equal(k.KlientensSisteSaksversjon, s.versjon())
	hentet, err := s.service.Hent(s.attestant(), s.sak.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(models.TilstandTilAttestering, hentet.Tilstand)
}

func (s *TilbakekrevingServiceSuite) TestIverksettSperretKravgrunnlag() {
	b := s.tilAttestering(models.SkalTilbakekreve)
	s.motta(kravgrunnlagtest.StatusXML("436204", "SPER", s.sak.Saksnummer.String()))

	_, err := s.service.Iverksett(s.attestant(), s.kommando(b))
	s.ErrorIs(err, ErrKravgrunnlagetErSperret)
	s.Empty(s.outbox.Alle())
}

func (s *TilbakekrevingServiceSuite) TestUnderkjenn() {
	b := s.tilAttestering(models.SkalTilbakekreve)

	s.Run("attestant cannot be the saksbehandler", func() {
		_, err := s.service.Underkjenn(s.ctx(saksbehandlerIdent, id.RolleAttestant), s.kommando(b), models.GrunnAndreForhold, "")
		s.ErrorIs(err, ErrAttestantOgSaksbehandlerKanIkkeVaereSammePerson)
	})

	s.Run("returns the behandling to the saksbehandler", func() {
		underkjent, err := s.service.Underkjenn(s.attestant(), s.kommando(b), models.GrunnVedtaksbrevetErFeil, "Feil beløp i brevet")
		s.Require().NoError(err)
		s.Equal(models.TilstandUnderkjent, underkjent.Tilstand)
		siste, ok := underkjent.Attesteringer.Siste()
		s.Require().True(ok)
		s.Equal(models.GrunnVedtaksbrevetErFeil, siste.Grunn)
		s.Equal("Feil beløp i brevet", siste.Kommentar)
		b = underkjent
	})

	s.Run("only til attestering can be underkjent", func() {
		_, err := s.service.Underkjenn(s.attestant(), s.kommando(b), models.GrunnAndreForhold, "")
		s.ErrorIs(err, ErrUgyldigTilstand)
	})

	s.Run("underkjent behandling is editable and can be sent again", func() {
		b, err := s.service.OppdaterVedtaksbrev(s.saksbehandler(), s.kommando(b), "Rettet brev")
		s.Require().NoError(err)
		b, err = s.service.SendTilAttestering(s.saksbehandler(), s.kommando(b))
		s.Require().NoError(err)
		s.Equal(models.TilstandTilAttestering, b.Tilstand)
		s.Len(b.Attesteringer, 1)
	})
}

func (s *TilbakekrevingServiceSuite) TestAvbryt() {
	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")
	b := s.opprett()

	avbrutt, err := s.service.Avbryt(s.saksbehandler(), s.kommando(b), "Feil i kravgrunnlaget")
	s.Require().NoError(err)
	s.Equal(models.TilstandAvbrutt, avbrutt.Tilstand)
	s.Require().NotNil(avbrutt.Avbrutt)
	s.Equal("Feil i kravgrunnlaget", avbrutt.Avbrutt.Begrunnelse)

	_, err = s.service.Vurder(s.saksbehandler(), s.kommando(b), nil)
	s.ErrorIs(err, ErrUgyldigTilstand)

	// the claim was not consumed, so a new behandling can start
	ny := s.opprett()
	s.NotEqual(b.ID, ny.ID)

	alle, err := s.service.HentForSak(s.saksbehandler(), s.sak.ID)
	s.Require().NoError(err)
	s.Len(alle, 2)
}

func (s *TilbakekrevingServiceSuite) TestHent() {
	s.mottaKravgrunnlag("2024-02-01-10.00.00.000000")
	b := s.opprett()

	hentet, err := s.service.Hent(s.attestant(), s.sak.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(b.ID, hentet.ID)

	_, err = s.service.Hent(s.attestant(), s.sak.ID, id.NewBehandlingID())
	s.ErrorIs(err, ErrFantIkkeBehandling)

	_, err = s.service.Hent(s.ctx("Z990003"), s.sak.ID, b.ID)
	s.ErrorIs(err, ErrIkkeTilgang)
}

package service

import (
	"context"

	hendelse "supstonad/internal/hendelse/models"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	outbox "supstonad/internal/outbox/models"
	"supstonad/internal/tilbakekreving/models"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/requestcontext"
)

var (
	saksbehandler = []id.Rolle{id.RolleSaksbehandler}
	attestant     = []id.Rolle{id.RolleAttestant}
)

// Kommando addresses a behandling at the sak version the client last saw.
type Kommando struct {
	SakID                     id.SakID
	BehandlingID              id.BehandlingID
	KlientensSisteSaksversjon hendelse.Versjon
}

// Opprett starts a behandling on the sak's outstanding claim. The behandling
// records the sak version it was created at.
func (s *Service) Opprett(ctx context.Context, sakID id.SakID, klientensSisteSaksversjon hendelse.Versjon) (*models.Tilbakekrevingsbehandling, error) {
	return s.kommando(ctx, "Opprett", sakID, id.BehandlingID{}, klientensSisteSaksversjon, saksbehandler,
		func(_ context.Context, t *sakstilstand, _ *models.Tilbakekrevingsbehandling) (*endring, error) {
			if models.Aapen(t.behandlinger) != nil {
				return nil, ErrFinnesAlleredeEnAapenBehandling
			}
			k := t.utestaaende()
			if k == nil {
				return nil, ErrIngenUtestaaendeKravgrunnlag
			}
			return &endring{
				typ:  models.HendelseOpprettet,
				data: models.Hendelsesdata{KravgrunnlagHendelseID: k.HendelseID},
			}, nil
		})
}

// Forhaandsvarsle records that an advance notice with fritekst was sent.
func (s *Service) Forhaandsvarsle(ctx context.Context, k Kommando, fritekst string) (*models.Tilbakekrevingsbehandling, error) {
	return s.endre(ctx, "Forhaandsvarsle", k, func(_ *sakstilstand, _ *models.Tilbakekrevingsbehandling) (*endring, error) {
		return &endring{typ: models.HendelseForhaandsvarslet, data: models.Hendelsesdata{Fritekst: fritekst}}, nil
	})
}

// Vurder replaces the vurderinger. They must cover exactly the claim's months.
func (s *Service) Vurder(ctx context.Context, k Kommando, perioder []models.Vurderingsperiode) (*models.Tilbakekrevingsbehandling, error) {
	return s.endre(ctx, "Vurder", k, func(_ *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
		vurderinger, err := models.NyeVurderinger(&b.Kravgrunnlag, perioder)
		if err != nil {
			return nil, err
		}
		return &endring{typ: models.HendelseVurdert, data: models.Hendelsesdata{Vurderinger: vurderinger}}, nil
	})
}

// OppdaterVedtaksbrev sets the free text of the decision letter.
func (s *Service) OppdaterVedtaksbrev(ctx context.Context, k Kommando, fritekst string) (*models.Tilbakekrevingsbehandling, error) {
	return s.endre(ctx, "OppdaterVedtaksbrev", k, func(_ *sakstilstand, _ *models.Tilbakekrevingsbehandling) (*endring, error) {
		return &endring{typ: models.HendelseVedtaksbrevOppdatert, data: models.Hendelsesdata{Fritekst: fritekst}}, nil
	})
}

// OppdaterNotat sets the internal note.
func (s *Service) OppdaterNotat(ctx context.Context, k Kommando, notat string) (*models.Tilbakekrevingsbehandling, error) {
	return s.endre(ctx, "OppdaterNotat", k, func(_ *sakstilstand, _ *models.Tilbakekrevingsbehandling) (*endring, error) {
		return &endring{typ: models.HendelseNotatOppdatert, data: models.Hendelsesdata{Notat: notat}}, nil
	})
}

// OppdaterKravgrunnlag moves the behandling to the sak's current outstanding
// claim and clears the vurderinger.
func (s *Service) OppdaterKravgrunnlag(ctx context.Context, k Kommando) (*models.Tilbakekrevingsbehandling, error) {
	return s.endre(ctx, "OppdaterKravgrunnlag", k, func(t *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
		u := t.utestaaende()
		if u == nil {
			return nil, ErrIngenUtestaaendeKravgrunnlag
		}
		if u.HendelseID == b.Kravgrunnlag.HendelseID {
			return nil, ErrKravgrunnlagetErUendret
		}
		return &endring{
			typ:  models.HendelseKravgrunnlagOppdatert,
			data: models.Hendelsesdata{KravgrunnlagHendelseID: u.HendelseID},
		}, nil
	})
}

// SendTilAttestering hands the behandling to an attestant.
func (s *Service) SendTilAttestering(ctx context.Context, k Kommando) (*models.Tilbakekrevingsbehandling, error) {
	return s.endre(ctx, "SendTilAttestering", k, func(t *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
		if u := t.utestaaende(); u == nil || u.HendelseID != b.Kravgrunnlag.HendelseID {
			return nil, ErrKravgrunnlagetHarEndretSeg
		}
		if err := b.KlarTilAttestering(); err != nil {
			return nil, err
		}
		return &endring{typ: models.HendelseTilAttestering}, nil
	})
}

// Underkjenn sends the behandling back to the saksbehandler.
func (s *Service) Underkjenn(ctx context.Context, k Kommando, grunn models.UnderkjennGrunn, kommentar string) (*models.Tilbakekrevingsbehandling, error) {
	return s.attester(ctx, "Underkjenn", k, func(_ *sakstilstand, _ *models.Tilbakekrevingsbehandling) (*endring, error) {
		return &endring{
			typ:  models.HendelseUnderkjent,
			data: models.Hendelsesdata{Grunn: grunn, Kommentar: kommentar},
		}, nil
	})
}

// Iverksett approves the behandling and queues the vedtak for the ledger in
// the same transaction.
func (s *Service) Iverksett(ctx context.Context, k Kommando) (*models.Tilbakekrevingsbehandling, error) {
	var netto float64
	b, err := s.attester(ctx, "Iverksett", k, func(t *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
		if err := sjekkKravgrunnlagForIverksetting(t, b); err != nil {
			return nil, err
		}
		return &endring{
			typ: models.HendelseIverksatt,
			etter: func(ctx context.Context, iverksatt *models.Tilbakekrevingsbehandling) error {
				vedtak, err := models.NyttVedtak(iverksatt, requestcontext.NavIdent(ctx), requestcontext.Now(ctx))
				if err != nil {
					return err
				}
				netto = vedtak.SumNetto.InexactFloat64()
				m, err := outbox.NyMelding("tilbakekrevingsbehandling", iverksatt.ID.String(),
					string(models.HendelseIverksatt), s.vedtakTopic, vedtak, requestcontext.Now(ctx))
				if err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build tilbakekrevingsvedtak")
				}
				if err := s.outbox.Enqueue(ctx, m); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to queue tilbakekrevingsvedtak")
				}
				return nil
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementIverksatt(netto)
	return b, nil
}

func sjekkKravgrunnlagForIverksetting(t *sakstilstand, b *models.Tilbakekrevingsbehandling) error {
	g := t.kravgrunnlag.Gjeldende()
	if g == nil || g.HendelseID != b.Kravgrunnlag.HendelseID {
		return ErrKravgrunnlagetHarEndretSeg
	}
	if g.Status == kravgrunnlag.StatusSperret {
		return ErrKravgrunnlagetErSperret
	}
	if t.utestaaende() == nil {
		return ErrKravgrunnlagetHarEndretSeg
	}
	return nil
}

// Avbryt ends an open behandling without a vedtak.
func (s *Service) Avbryt(ctx context.Context, k Kommando, begrunnelse string) (*models.Tilbakekrevingsbehandling, error) {
	return s.kommando(ctx, "Avbryt", k.SakID, k.BehandlingID, k.KlientensSisteSaksversjon, saksbehandler,
		func(_ context.Context, _ *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
			if b == nil {
				return nil, ErrFantIkkeBehandling
			}
			if !b.ErAapen() {
				return nil, ErrUgyldigTilstand
			}
			return &endring{typ: models.HendelseAvbrutt, data: models.Hendelsesdata{Begrunnelse: begrunnelse}}, nil
		})
}

// endre runs a saksbehandler command on an editable behandling.
func (s *Service) endre(ctx context.Context, operasjon string, k Kommando, beslutt func(*sakstilstand, *models.Tilbakekrevingsbehandling) (*endring, error)) (*models.Tilbakekrevingsbehandling, error) {
	return s.kommando(ctx, operasjon, k.SakID, k.BehandlingID, k.KlientensSisteSaksversjon, saksbehandler,
		func(_ context.Context, t *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
			if b == nil {
				return nil, ErrFantIkkeBehandling
			}
			if !b.Tilstand.KanEndres() {
				return nil, ErrUgyldigTilstand
			}
			return beslutt(t, b)
		})
}

// attester runs an attestant command on a behandling sent to attestering by
// someone else.
func (s *Service) attester(ctx context.Context, operasjon string, k Kommando, beslutt func(*sakstilstand, *models.Tilbakekrevingsbehandling) (*endring, error)) (*models.Tilbakekrevingsbehandling, error) {
	return s.kommando(ctx, operasjon, k.SakID, k.BehandlingID, k.KlientensSisteSaksversjon, attestant,
		func(ctx context.Context, t *sakstilstand, b *models.Tilbakekrevingsbehandling) (*endring, error) {
			if b == nil {
				return nil, ErrFantIkkeBehandling
			}
			if b.Tilstand != models.TilstandTilAttestering {
				return nil, ErrUgyldigTilstand
			}
			if requestcontext.NavIdent(ctx) == b.SendtTilAttesteringAv {
				return nil, ErrAttestantOgSaksbehandlerKanIkkeVaereSammePerson
			}
			return beslutt(t, b)
		})
}

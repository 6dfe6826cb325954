package handler

import (
	"time"

	"github.com/shopspring/decimal"

	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	"supstonad/internal/tilbakekreving/models"
)

// BehandlingResponse is the HTTP representation of a behandling.
type BehandlingResponse struct {
	ID                    string                       `json:"id"`
	SakID                 string                       `json:"sakId"`
	Opprettet             time.Time                    `json:"opprettet"`
	OpprettetAv           string                       `json:"opprettetAv"`
	OpprettetVersjon      int64                        `json:"opprettetVersjon"`
	Versjon               int64                        `json:"versjon"`
	Tilstand              string                       `json:"tilstand"`
	Kravgrunnlag          kravgrunnlag.Kravgrunnlag    `json:"kravgrunnlag"`
	Vurderinger           models.Vurderinger           `json:"vurderinger"`
	Beloep                *BeloepResponse              `json:"beloep,omitempty"`
	Forhaandsvarsler      []models.Forhaandsvarsel     `json:"forhandsvarsler"`
	Vedtaksbrev           *string                      `json:"vedtaksbrev"`
	Notat                 string                       `json:"notat,omitempty"`
	SendtTilAttesteringAv string                       `json:"sendtTilAttesteringAv,omitempty"`
	Attesteringer         models.Attesteringshistorikk `json:"attesteringer"`
	Avbrutt               *models.Avbrutt              `json:"avbrutt,omitempty"`
}

// BeloepResponse is the recoup amounts for the current vurderinger.
type BeloepResponse struct {
	Perioder                 []models.Periodebeloep `json:"perioder"`
	BruttoTilbakekreves      decimal.Decimal        `json:"bruttoTilbakekreves"`
	SkattSomGaarTilReduksjon decimal.Decimal        `json:"skattSomGaarTilReduksjon"`
	NettoTilbakekreves       decimal.Decimal        `json:"nettoTilbakekreves"`
}

func toBehandlingResponse(b *models.Tilbakekrevingsbehandling) *BehandlingResponse {
	resp := &BehandlingResponse{
		ID:                    b.ID.String(),
		SakID:                 b.SakID.String(),
		Opprettet:             b.Opprettet,
		OpprettetAv:           b.OpprettetAv.String(),
		OpprettetVersjon:      int64(b.OpprettetVersjon),
		Versjon:               int64(b.Versjon),
		Tilstand:              string(b.Tilstand),
		Kravgrunnlag:          b.Kravgrunnlag,
		Vurderinger:           b.Vurderinger,
		Forhaandsvarsler:      b.Forhaandsvarsler,
		Vedtaksbrev:           b.Vedtaksbrev,
		Notat:                 b.Notat,
		SendtTilAttesteringAv: b.SendtTilAttesteringAv.String(),
		Attesteringer:         b.Attesteringer,
		Avbrutt:               b.Avbrutt,
	}
	if resp.Vurderinger == nil {
		resp.Vurderinger = models.Vurderinger{}
	}
	if resp.Forhaandsvarsler == nil {
		resp.Forhaandsvarsler = []models.Forhaandsvarsel{}
	}
	if resp.Attesteringer == nil {
		resp.Attesteringer = models.Attesteringshistorikk{}
	}
	if len(b.Vurderinger) > 0 {
		if perioder, err := b.Beloep(); err == nil {
			brutto, skatt, netto := models.Sum(perioder)
			resp.Beloep = &BeloepResponse{
				Perioder:                 perioder,
				BruttoTilbakekreves:      brutto,
				SkattSomGaarTilReduksjon: skatt,
				NettoTilbakekreves:       netto,
			}
		}
	}
	return resp
}

func toBehandlingerResponse(bs []*models.Tilbakekrevingsbehandling) []*BehandlingResponse {
	out := make([]*BehandlingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBehandlingResponse(b))
	}
	return out
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "supstonad/pkg/domain"
)

// Tilbakekrevingsvedtak is sent to the ledger when a behandling is iverksatt.
type Tilbakekrevingsvedtak struct {
	BehandlingID          id.BehandlingID `json:"behandlingId"`
	SakID                 id.SakID        `json:"sakId"`
	Saksnummer            id.Saksnummer   `json:"saksnummer"`
	EksternKravgrunnlagID string          `json:"eksternKravgrunnlagId"`
	EksternVedtakID       string          `json:"eksternVedtakId"`
	EksternKontrollfelt   string          `json:"eksternKontrollfelt"`
	Saksbehandler         id.NavIdent     `json:"saksbehandler"`
	Attestant             id.NavIdent     `json:"attestant"`
	Iverksatt             time.Time       `json:"iverksatt"`
	Perioder              []Periodebeloep `json:"perioder"`
	SumBrutto             decimal.Decimal `json:"sumBruttoTilbakekreves"`
	SumSkatt              decimal.Decimal `json:"sumSkattSomGaarTilReduksjon"`
	SumNetto              decimal.Decimal `json:"sumNettoTilbakekreves"`
}

// NyttVedtak builds the ledger message for b, iverksatt by attestant at tidspunkt.
func NyttVedtak(b *Tilbakekrevingsbehandling, attestant id.NavIdent, tidspunkt time.Time) (*Tilbakekrevingsvedtak, error) {
	perioder, err := b.Beloep()
	if err != nil {
		return nil, err
	}
	brutto, skatt, netto := Sum(perioder)
	return &Tilbakekrevingsvedtak{
		BehandlingID:          b.ID,
		SakID:                 b.SakID,
		Saksnummer:            b.Kravgrunnlag.Saksnummer,
		EksternKravgrunnlagID: b.Kravgrunnlag.EksternKravgrunnlagID,
		EksternVedtakID:       b.Kravgrunnlag.EksternVedtakID,
		EksternKontrollfelt:   b.Kravgrunnlag.EksternKontrollfelt,
		Saksbehandler:         b.SendtTilAttesteringAv,
		Attestant:             attestant,
		Iverksatt:             tidspunkt.UTC(),
		Perioder:              perioder,
		SumBrutto:             brutto,
		SumSkatt:              skatt,
		SumNetto:              netto,
	}, nil
}

package models

import (
	"slices"

	"github.com/shopspring/decimal"

	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	dErrors "supstonad/pkg/domain-errors"
)

// Vurdering is the saksbehandler's decision for one month.
type Vurdering string

const (
	SkalTilbakekreve     Vurdering = "SkalTilbakekreve"
	SkalIkkeTilbakekreve Vurdering = "SkalIkkeTilbakekreve"
)

// ParseVurdering validates a vurdering from a request.
func ParseVurdering(s string) (Vurdering, error) {
	switch v := Vurdering(s); v {
	case SkalTilbakekreve, SkalIkkeTilbakekreve:
		return v, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "ukjent vurdering: "+s)
	}
}

// Vurderingsperiode is the vurdering of one claim month.
type Vurderingsperiode struct {
	Maaned    kravgrunnlag.Maaned `json:"maaned"`
	Vurdering Vurdering           `json:"vurdering"`
}

// Vurderinger holds one vurdering per claim month, sorted by month.
type Vurderinger []Vurderingsperiode

var ErrVurderingeneStemmerIkkeMedKravgrunnlaget = dErrors.NewKode(dErrors.CodeValidation,
	"vurderingene_stemmer_ikke_med_kravgrunnlaget", "vurderingene må dekke nøyaktig kravgrunnlagets måneder")

// NyeVurderinger sorts perioder by month and checks that they cover exactly the
// months of k, each once.
func NyeVurderinger(k *kravgrunnlag.Kravgrunnlag, perioder []Vurderingsperiode) (Vurderinger, error) {
	out := slices.Clone(perioder)
	slices.SortFunc(out, func(a, b Vurderingsperiode) int {
		switch {
		case a.Maaned < b.Maaned:
			return -1
		case a.Maaned > b.Maaned:
			return 1
		default:
			return 0
		}
	})

	maaneder := k.Maaneder()
	slices.Sort(maaneder)
	if len(out) != len(maaneder) {
		return nil, ErrVurderingeneStemmerIkkeMedKravgrunnlaget
	}
	for i := range out {
		if out[i].Maaned != maaneder[i] {
			return nil, ErrVurderingeneStemmerIkkeMedKravgrunnlaget
		}
	}
	return out, nil
}

// Periodebeloep is the recoup amount for one month.
type Periodebeloep struct {
	Maaned                   kravgrunnlag.Maaned `json:"maaned"`
	Vurdering                Vurdering           `json:"vurdering"`
	BruttoFeilutbetaling     decimal.Decimal     `json:"bruttoFeilutbetaling"`
	BruttoTilbakekreves      decimal.Decimal     `json:"bruttoTilbakekreves"`
	SkattSomGaarTilReduksjon decimal.Decimal     `json:"skattSomGaarTilReduksjon"`
	NettoTilbakekreves       decimal.Decimal     `json:"nettoTilbakekreves"`
}

var hundre = decimal.NewFromInt(100)

// BeregnBeloep computes the amounts per month. A recouped month takes back the
// gross overpayment; the tax part is the overpayment times the tax percentage,
// rounded to whole kroner and capped at the tax actually paid for the month.
func BeregnBeloep(k *kravgrunnlag.Kravgrunnlag, vurderinger Vurderinger) ([]Periodebeloep, error) {
	out := make([]Periodebeloep, 0, len(vurderinger))
	for _, v := range vurderinger {
		p, ok := k.Periode(v.Maaned)
		if !ok {
			return nil, ErrVurderingeneStemmerIkkeMedKravgrunnlaget
		}
		b := Periodebeloep{
			Maaned:                   v.Maaned,
			Vurdering:                v.Vurdering,
			BruttoFeilutbetaling:     p.BruttoFeilutbetaling,
			BruttoTilbakekreves:      decimal.Zero,
			SkattSomGaarTilReduksjon: decimal.Zero,
			NettoTilbakekreves:       decimal.Zero,
		}
		if v.Vurdering == SkalTilbakekreve {
			brutto := p.BruttoFeilutbetaling
			skatt := decimal.Min(p.BetaltSkattForYtelsesgruppen, brutto.Mul(p.SkatteProsent).Div(hundre).Round(0))
			b.BruttoTilbakekreves = brutto
			b.SkattSomGaarTilReduksjon = skatt
			b.NettoTilbakekreves = brutto.Sub(skatt)
		}
		out = append(out, b)
	}
	return out, nil
}

// Sum totals a list of period amounts.
func Sum(beloep []Periodebeloep) (brutto, skatt, netto decimal.Decimal) {
	brutto, skatt, netto = decimal.Zero, decimal.Zero, decimal.Zero
	for _, b := range beloep {
		brutto = brutto.Add(b.BruttoTilbakekreves)
		skatt = skatt.Add(b.SkattSomGaarTilReduksjon)
		netto = netto.Add(b.NettoTilbakekreves)
	}
	return brutto, skatt, netto
}

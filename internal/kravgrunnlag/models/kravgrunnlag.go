// Package models holds the kravgrunnlag (claim) value types and the fold that
// turns a sak's claim hendelser into the current claim view.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
)

// Maaned is a calendar month formatted YYYY-MM.
type Maaned string

// ParseMaaned accepts "2006-01" or a full "2006-01-02" date and returns its month.
func ParseMaaned(s string) (Maaned, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Maaned(t.Format("2006-01")), nil
		}
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "ugyldig måned: "+s)
}

// Grunnlagsperiode is the claim for one month.
type Grunnlagsperiode struct {
	Maaned                       Maaned          `json:"maaned"`
	BetaltSkattForYtelsesgruppen decimal.Decimal `json:"betaltSkattForYtelsesgruppen"`
	BruttoTidligereUtbetalt      decimal.Decimal `json:"bruttoTidligereUtbetalt"`
	BruttoNyUtbetaling           decimal.Decimal `json:"bruttoNyUtbetaling"`
	BruttoFeilutbetaling         decimal.Decimal `json:"bruttoFeilutbetaling"`
	SkatteProsent                decimal.Decimal `json:"skatteProsent"`
}

// Kravgrunnlag is an immutable claim document as issued by the ledger. A newer
// claim with the same EksternVedtakID supersedes it.
type Kravgrunnlag struct {
	// HendelseID is the hendelse that tied this claim to the sak.
	HendelseID            id.HendelseID      `json:"hendelseId"`
	EksternKravgrunnlagID string             `json:"eksternKravgrunnlagId"`
	EksternVedtakID       string             `json:"eksternVedtakId"`
	EksternKontrollfelt   string             `json:"eksternKontrollfelt"`
	EksternTidspunkt      time.Time          `json:"eksternTidspunkt"`
	Status                Status             `json:"status"`
	Behandler             string             `json:"behandler"`
	UtbetalingID          id.UtbetalingID    `json:"utbetalingId"`
	Saksnummer            id.Saksnummer      `json:"saksnummer"`
	Grunnlagsperioder     []Grunnlagsperiode `json:"grunnlagsperioder"`
}

// Maaneder lists the months the claim covers, in document order.
func (k *Kravgrunnlag) Maaneder() []Maaned {
	out := make([]Maaned, len(k.Grunnlagsperioder))
	for i, p := range k.Grunnlagsperioder {
		out[i] = p.Maaned
	}
	return out
}

// Periode returns the grunnlagsperiode for m.
func (k *Kravgrunnlag) Periode(m Maaned) (Grunnlagsperiode, bool) {
	for _, p := range k.Grunnlagsperioder {
		if p.Maaned == m {
			return p, true
		}
	}
	return Grunnlagsperiode{}, false
}

// SumBruttoFeilutbetaling totals the overpaid gross amount.
func (k *Kravgrunnlag) SumBruttoFeilutbetaling() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range k.Grunnlagsperioder {
		sum = sum.Add(p.BruttoFeilutbetaling)
	}
	return sum
}

// Statusendring changes the status of the claim(s) with EksternVedtakID.
type Statusendring struct {
	EksternVedtakID  string        `json:"eksternVedtakId"`
	Status           Status        `json:"status"`
	EksternTidspunkt time.Time     `json:"eksternTidspunkt"`
	Saksnummer       id.Saksnummer `json:"saksnummer"`
}

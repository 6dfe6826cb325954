// Package models holds the minimal sak aggregate the claim workflow needs.
package models

import (
	"time"

	hendelse "supstonad/internal/hendelse/models"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	id "supstonad/pkg/domain"
)

// HendelseSakOpprettet is the first hendelse on every sak (versjon 1).
const HendelseSakOpprettet hendelse.Type = "SAK_OPPRETTET"

// Sak is a claimant's benefit case. Versjon is derived from the hendelse log.
type Sak struct {
	ID         id.SakID
	Saksnummer id.Saksnummer
	Fnr        id.Fnr
	Opprettet  time.Time
	Versjon    hendelse.Versjon
}

// SakOpprettet is the data of HendelseSakOpprettet.
type SakOpprettet struct {
	Saksnummer id.Saksnummer `json:"saksnummer"`
	Fnr        id.Fnr        `json:"fnr"`
}

// NySak creates an unsaved sak. The store assigns the saksnummer.
func NySak(fnr id.Fnr, opprettet time.Time) *Sak {
	return &Sak{
		ID:        id.NewSakID(),
		Fnr:       fnr,
		Opprettet: opprettet.UTC(),
	}
}

// Kravgrunnlagsoversikt is the claim view shown on a sak. Gjeldende is the newest
// claim with its current status; Utestaaende is set when it can still be recouped.
type Kravgrunnlagsoversikt struct {
	Gjeldende   *kravgrunnlag.Kravgrunnlag
	Utestaaende *kravgrunnlag.Kravgrunnlag
	Alle        []kravgrunnlag.Kravgrunnlag
}

// SakDetaljer is a sak with the version clients must echo back and its claims.
type SakDetaljer struct {
	Sak
	Kravgrunnlag Kravgrunnlagsoversikt
}

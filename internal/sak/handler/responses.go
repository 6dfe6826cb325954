package handler

import (
	"time"

	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	"supstonad/internal/sak/models"
)

// SakResponse is the HTTP representation of a sak. Versjon is the value clients
// send back as klientensSisteSaksversjon.
type SakResponse struct {
	ID           string                `json:"id"`
	Saksnummer   int64                 `json:"saksnummer"`
	Fnr          string                `json:"fnr"`
	Opprettet    time.Time             `json:"opprettet"`
	Versjon      int64                 `json:"versjon"`
	Kravgrunnlag *KravgrunnlagOversikt `json:"kravgrunnlag,omitempty"`
}

// KravgrunnlagOversikt is the claim view of a sak.
type KravgrunnlagOversikt struct {
	Gjeldende   *kravgrunnlag.Kravgrunnlag  `json:"gjeldende"`
	Utestaaende *kravgrunnlag.Kravgrunnlag  `json:"utestaaende"`
	Alle        []kravgrunnlag.Kravgrunnlag `json:"alle"`
}

func toSakResponse(sak *models.Sak) *SakResponse {
	return &SakResponse{
		ID:         sak.ID.String(),
		Saksnummer: int64(sak.Saksnummer),
		Fnr:        sak.Fnr.String(),
		Opprettet:  sak.Opprettet,
		Versjon:    int64(sak.Versjon),
	}
}

func toSakDetaljerResponse(d *models.SakDetaljer) *SakResponse {
	resp := toSakResponse(&d.Sak)
	alle := d.Kravgrunnlag.Alle
	if alle == nil {
		alle = []kravgrunnlag.Kravgrunnlag{}
	}
	resp.Kravgrunnlag = &KravgrunnlagOversikt{
		Gjeldende:   d.Kravgrunnlag.Gjeldende,
		Utestaaende: d.Kravgrunnlag.Utestaaende,
		Alle:        alle,
	}
	return resp
}

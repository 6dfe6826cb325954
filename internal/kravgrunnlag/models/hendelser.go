package models

import (
	"time"

	hendelse "supstonad/internal/hendelse/models"
	id "supstonad/pkg/domain"
)

const (
	// HendelseRaattKravgrunnlag is a claim message exactly as received. It has no sak.
	HendelseRaattKravgrunnlag hendelse.Type = "RAATT_KRAVGRUNNLAG"
	// HendelseKnyttetTilSak is a parsed claim or status change tied to a sak.
	HendelseKnyttetTilSak hendelse.Type = "KNYTTET_KRAVGRUNNLAG_TIL_SAK"

	// KonsumentKnyttTilSak is the linker job's processed-set name.
	KonsumentKnyttTilSak hendelse.KonsumentID = "KnyttKravgrunnlagTilSak"
)

// RaattKravgrunnlag is the data of a HendelseRaattKravgrunnlag.
type RaattKravgrunnlag struct {
	MeldingID string    `json:"meldingId"`
	Melding   string    `json:"melding"`
	Mottatt   time.Time `json:"mottatt"`
}

// KnyttetTilSak is the data of a HendelseKnyttetTilSak. Exactly one of Detaljer
// and Statusendring is set.
type KnyttetTilSak struct {
	RaattHendelseID id.HendelseID  `json:"raattHendelseId"`
	Detaljer        *Kravgrunnlag  `json:"detaljer,omitempty"`
	Statusendring   *Statusendring `json:"statusendring,omitempty"`
}

// KnyttetHendelse is a decoded HendelseKnyttetTilSak with its log position.
type KnyttetHendelse struct {
	HendelseID id.HendelseID
	Versjon    hendelse.Versjon
	Data       KnyttetTilSak
}

// DecodeKnyttet decodes a HendelseKnyttetTilSak and stamps the hendelse id onto the claim.
func DecodeKnyttet(h *hendelse.Hendelse) (KnyttetHendelse, error) {
	var data KnyttetTilSak
	if err := h.Decode(&data); err != nil {
		return KnyttetHendelse{}, err
	}
	if data.Detaljer != nil {
		data.Detaljer.HendelseID = h.ID
	}
	return KnyttetHendelse{HendelseID: h.ID, Versjon: h.Versjon, Data: data}, nil
}

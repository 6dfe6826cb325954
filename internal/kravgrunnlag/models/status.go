package models

import (
	"strings"

	dErrors "supstonad/pkg/domain-errors"
)

// Status is the ledger's status of a kravgrunnlag.
type Status string

const (
	StatusAnnulert        Status = "ANNULERT"
	StatusAnnulertVedOmg  Status = "ANNULERT_VED_OMG"
	StatusAvsluttet       Status = "AVSLUTTET"
	StatusFerdigbehandlet Status = "FERDIGBEHANDLET"
	StatusEndret          Status = "ENDRET"
	StatusFeil            Status = "FEIL"
	StatusManuell         Status = "MANUELL"
	StatusNytt            Status = "NYTT"
	StatusSperret         Status = "SPERRET"
)

var statusByKode = map[string]Status{
	"ANNU": StatusAnnulert,
	"ANOM": StatusAnnulertVedOmg,
	"AVSL": StatusAvsluttet,
	"FERD": StatusFerdigbehandlet,
	"ENDR": StatusEndret,
	"FEIL": StatusFeil,
	"MANU": StatusManuell,
	"NY":   StatusNytt,
	"SPER": StatusSperret,
}

// ParseStatusKode maps the ledger's four-letter code (kodeStatusKrav) to a Status.
func ParseStatusKode(kode string) (Status, error) {
	s, ok := statusByKode[strings.ToUpper(strings.TrimSpace(kode))]
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "ukjent kravgrunnlagstatus: "+kode)
	}
	return s, nil
}

// Kode returns the ledger code for s.
func (s Status) Kode() string {
	for k, v := range statusByKode {
		if v == s {
			return k
		}
	}
	return ""
}

// KanBehandles reports whether a claim in this status can be the basis of a
// tilbakekrevingsbehandling.
func (s Status) KanBehandles() bool {
	switch s {
	case StatusNytt, StatusEndret, StatusManuell, StatusSperret:
		return true
	default:
		return false
	}
}

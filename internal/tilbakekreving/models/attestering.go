package models

import (
	"time"

	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
)

// UnderkjennGrunn is why an attestant sent a behandling back.
type UnderkjennGrunn string

const (
	GrunnIkkeGrunnlagForTilbakekreving UnderkjennGrunn = "IKKE_GRUNNLAG_FOR_TILBAKEKREVING"
	GrunnDokumentasjonMangler          UnderkjennGrunn = "DOKUMENTASJON_MANGLER"
	GrunnVedtaksbrevetErFeil           UnderkjennGrunn = "VEDTAKSBREVET_ER_FEIL"
	GrunnVurderingenErFeil             UnderkjennGrunn = "VURDERINGEN_ER_FEIL"
	GrunnAndreForhold                  UnderkjennGrunn = "ANDRE_FORHOLD"
)

// ParseUnderkjennGrunn validates a grunn from a request.
func ParseUnderkjennGrunn(s string) (UnderkjennGrunn, error) {
	switch g := UnderkjennGrunn(s); g {
	case GrunnIkkeGrunnlagForTilbakekreving, GrunnDokumentasjonMangler, GrunnVedtaksbrevetErFeil,
		GrunnVurderingenErFeil, GrunnAndreForhold:
		return g, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "ukjent underkjennelsesgrunn: "+s)
	}
}

// Attesteringsutfall tells Iverksatt and Underkjent apart.
type Attesteringsutfall string

const (
	AttesteringIverksatt  Attesteringsutfall = "IVERKSATT"
	AttesteringUnderkjent Attesteringsutfall = "UNDERKJENT"
)

// Attestering is one attestant decision. Grunn and Kommentar are set only when
// the behandling was sent back.
type Attestering struct {
	Utfall    Attesteringsutfall `json:"utfall"`
	Attestant id.NavIdent        `json:"attestant"`
	Grunn     UnderkjennGrunn    `json:"grunn,omitempty"`
	Kommentar string             `json:"kommentar,omitempty"`
	Tidspunkt time.Time          `json:"tidspunkt"`
}

// Attesteringshistorikk lists attesteringer oldest first.
type Attesteringshistorikk []Attestering

// Siste returns the latest attestering.
func (h Attesteringshistorikk) Siste() (Attestering, bool) {
	if len(h) == 0 {
		return Attestering{}, false
	}
	return h[len(h)-1], true
}

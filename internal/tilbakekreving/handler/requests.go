package handler

import (
	hendelse "supstonad/internal/hendelse/models"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	"supstonad/internal/tilbakekreving/models"
)

// Versjonert carries the sak version the client last saw. Every command body
// embeds it.
type Versjonert struct {
	KlientensSisteSaksversjon int64 `json:"klientensSisteSaksversjon" validate:"required,gte=1"`
}

func (v Versjonert) versjon() hendelse.Versjon {
	return hendelse.Versjon(v.KlientensSisteSaksversjon)
}

type versjonert interface {
	versjon() hendelse.Versjon
}

// VersjonRequest is the body of commands without further input.
type VersjonRequest struct {
	Versjonert
}

// FritekstRequest is the body of forhandsvarsel and brev.
type FritekstRequest struct {
	Versjonert
	Fritekst string `json:"fritekst" validate:"required,max=20000"`
}

// NotatRequest is the body of notat. An empty notat clears it.
type NotatRequest struct {
	Versjonert
	Notat string `json:"notat" validate:"max=20000"`
}

// VurderingRequest is the vurdering of one month.
type VurderingRequest struct {
	Maaned    string `json:"maaned" validate:"required"`
	Vurdering string `json:"vurdering" validate:"required"`
}

// VurderRequest is the body of vurder.
type VurderRequest struct {
	Versjonert
	Perioder []VurderingRequest `json:"perioder" validate:"required,min=1,dive"`

	parsed []models.Vurderingsperiode
}

// Validate parses months and vurderinger. Implements httputil.Validatable.
func (r *VurderRequest) Validate() error {
	r.parsed = make([]models.Vurderingsperiode, 0, len(r.Perioder))
	for _, p := range r.Perioder {
		maaned, err := kravgrunnlag.ParseMaaned(p.Maaned)
		if err != nil {
			return err
		}
		vurdering, err := models.ParseVurdering(p.Vurdering)
		if err != nil {
			return err
		}
		r.parsed = append(r.parsed, models.Vurderingsperiode{Maaned: maaned, Vurdering: vurdering})
	}
	return nil
}

// UnderkjennRequest is the body of underkjenn.
type UnderkjennRequest struct {
	Versjonert
	Grunn     string `json:"grunn" validate:"required"`
	Kommentar string `json:"kommentar" validate:"required,max=5000"`

	parsedGrunn models.UnderkjennGrunn
}

// Validate parses the grunn. Implements httputil.Validatable.
func (r *UnderkjennRequest) Validate() error {
	grunn, err := models.ParseUnderkjennGrunn(r.Grunn)
	if err != nil {
		return err
	}
	r.parsedGrunn = grunn
	return nil
}

// AvbrytRequest is the body of avbryt.
type AvbrytRequest struct {
	Versjonert
	Begrunnelse string `json:"begrunnelse" validate:"required,max=5000"`
}

// Package models holds the tilbakekrevingsbehandling aggregate. A behandling has
// no table of its own: it is the fold of its hendelser on the sak.
package models

import (
	"time"

	hendelse "supstonad/internal/hendelse/models"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
)

// Tilstand is the lifecycle state of a behandling.
type Tilstand string

const (
	TilstandOpprettet       Tilstand = "OPPRETTET"
	TilstandUnderBehandling Tilstand = "UNDER_BEHANDLING"
	TilstandTilAttestering  Tilstand = "TIL_ATTESTERING"
	TilstandUnderkjent      Tilstand = "UNDERKJENT"
	TilstandIverksatt       Tilstand = "IVERKSATT"
	TilstandAvbrutt         Tilstand = "AVBRUTT"
)

// ErAapen reports whether the behandling has not reached a terminal state.
func (t Tilstand) ErAapen() bool {
	return t != TilstandIverksatt && t != TilstandAvbrutt
}

// KanEndres reports whether the saksbehandler may edit the behandling.
func (t Tilstand) KanEndres() bool {
	switch t {
	case TilstandOpprettet, TilstandUnderBehandling, TilstandUnderkjent:
		return true
	default:
		return false
	}
}

// Forhaandsvarsel is a recorded advance notice. Only the text is kept.
type Forhaandsvarsel struct {
	Fritekst  string      `json:"fritekst"`
	Av        id.NavIdent `json:"av"`
	Tidspunkt time.Time   `json:"tidspunkt"`
}

// Avbrutt records why and by whom a behandling was cancelled.
type Avbrutt struct {
	Begrunnelse string      `json:"begrunnelse"`
	Av          id.NavIdent `json:"av"`
	Tidspunkt   time.Time   `json:"tidspunkt"`
}

// Tilbakekrevingsbehandling is the recoupment case for one claim on a sak.
type Tilbakekrevingsbehandling struct {
	ID          id.BehandlingID
	SakID       id.SakID
	Opprettet   time.Time
	OpprettetAv id.NavIdent

	// OpprettetVersjon is the sak version the behandling was created at.
	OpprettetVersjon hendelse.Versjon
	// Versjon is the sak version of the behandling's latest hendelse.
	Versjon hendelse.Versjon

	Tilstand     Tilstand
	Kravgrunnlag kravgrunnlag.Kravgrunnlag

	Vurderinger      Vurderinger
	Forhaandsvarsler []Forhaandsvarsel
	Vedtaksbrev      *string
	Notat            string

	SendtTilAttesteringAv id.NavIdent
	Attesteringer         Attesteringshistorikk
	Avbrutt               *Avbrutt
}

// ErAapen reports whether the behandling is still open.
func (b *Tilbakekrevingsbehandling) ErAapen() bool {
	return b.Tilstand.ErAapen()
}

// Beloep computes the recoup amounts for the current vurderinger.
func (b *Tilbakekrevingsbehandling) Beloep() ([]Periodebeloep, error) {
	return BeregnBeloep(&b.Kravgrunnlag, b.Vurderinger)
}

// SkalTilbakekreveNoe reports whether any period is recouped.
func (b *Tilbakekrevingsbehandling) SkalTilbakekreveNoe() bool {
	for _, v := range b.Vurderinger {
		if v.Vurdering == SkalTilbakekreve {
			return true
		}
	}
	return false
}

// KlarTilAttestering checks that the behandling is complete enough to send.
func (b *Tilbakekrevingsbehandling) KlarTilAttestering() error {
	if len(b.Vurderinger) == 0 {
		return ErrManglerVurderinger
	}
	if b.SkalTilbakekreveNoe() && (b.Vedtaksbrev == nil || *b.Vedtaksbrev == "") {
		return ErrManglerVedtaksbrev
	}
	return nil
}

var (
	ErrManglerVurderinger = dErrors.NewKode(dErrors.CodeInvariantViolation, "mangler_vurderinger", "behandlingen er ikke vurdert")
	ErrManglerVedtaksbrev = dErrors.NewKode(dErrors.CodeInvariantViolation, "mangler_vedtaksbrev", "behandlingen mangler vedtaksbrev")
)

package models

import (
	"fmt"
	"sort"

	hendelse "supstonad/internal/hendelse/models"
	kravgrunnlag "supstonad/internal/kravgrunnlag/models"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
)

const (
	HendelseOpprettet             hendelse.Type = "TILBAKEKREVINGSBEHANDLING_OPPRETTET"
	HendelseForhaandsvarslet      hendelse.Type = "TILBAKEKREVINGSBEHANDLING_FORHAANDSVARSLET"
	HendelseVurdert               hendelse.Type = "TILBAKEKREVINGSBEHANDLING_VURDERT"
	HendelseVedtaksbrevOppdatert  hendelse.Type = "TILBAKEKREVINGSBEHANDLING_VEDTAKSBREV_OPPDATERT"
	HendelseNotatOppdatert        hendelse.Type = "TILBAKEKREVINGSBEHANDLING_NOTAT_OPPDATERT"
	HendelseKravgrunnlagOppdatert hendelse.Type = "TILBAKEKREVINGSBEHANDLING_KRAVGRUNNLAG_OPPDATERT"
	HendelseTilAttestering        hendelse.Type = "TILBAKEKREVINGSBEHANDLING_TIL_ATTESTERING"
	HendelseUnderkjent            hendelse.Type = "TILBAKEKREVINGSBEHANDLING_UNDERKJENT"
	HendelseIverksatt             hendelse.Type = "TILBAKEKREVINGSBEHANDLING_IVERKSATT"
	HendelseAvbrutt               hendelse.Type = "TILBAKEKREVINGSBEHANDLING_AVBRUTT"
)

// Typer lists every behandling hendelse type.
func Typer() []hendelse.Type {
	return []hendelse.Type{
		HendelseOpprettet, HendelseForhaandsvarslet, HendelseVurdert, HendelseVedtaksbrevOppdatert,
		HendelseNotatOppdatert, HendelseKravgrunnlagOppdatert, HendelseTilAttestering,
		HendelseUnderkjent, HendelseIverksatt, HendelseAvbrutt,
	}
}

// Hendelsesdata is the data of every behandling hendelse. Only the fields that
// belong to the hendelse type are set.
type Hendelsesdata struct {
	Utfoerer id.NavIdent `json:"utfoerer"`

	KravgrunnlagHendelseID id.HendelseID   `json:"kravgrunnlagHendelseId,omitzero"`
	Vurderinger            Vurderinger     `json:"vurderinger,omitempty"`
	Fritekst               string          `json:"fritekst,omitempty"`
	Notat                  string          `json:"notat,omitempty"`
	Grunn                  UnderkjennGrunn `json:"grunn,omitempty"`
	Kommentar              string          `json:"kommentar,omitempty"`
	Begrunnelse            string          `json:"begrunnelse,omitempty"`
}

// KravgrunnlagOppslag resolves a claim by the hendelse that linked it to the sak.
type KravgrunnlagOppslag func(hendelseID id.HendelseID) (*kravgrunnlag.Kravgrunnlag, bool)

// Fold replays a sak's behandling hendelser and returns the behandlinger in
// creation order. The log is trusted: commands validate before they append.
func Fold(hendelser []*hendelse.Hendelse, oppslag KravgrunnlagOppslag) ([]*Tilbakekrevingsbehandling, error) {
	sorted := append([]*hendelse.Hendelse(nil), hendelser...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Versjon < sorted[j].Versjon })

	byID := make(map[id.BehandlingID]*Tilbakekrevingsbehandling)
	var order []*Tilbakekrevingsbehandling
	for _, h := range sorted {
		var data Hendelsesdata
		if err := h.Decode(&data); err != nil {
			return nil, err
		}
		behandlingID := id.BehandlingID(h.EntitetID)

		if h.Type == HendelseOpprettet {
			k, ok := oppslag(data.KravgrunnlagHendelseID)
			if !ok {
				return nil, missingKravgrunnlag(behandlingID, data.KravgrunnlagHendelseID)
			}
			b := &Tilbakekrevingsbehandling{
				ID:               behandlingID,
				SakID:            h.SakID,
				Opprettet:        h.Tidspunkt,
				OpprettetAv:      data.Utfoerer,
				OpprettetVersjon: h.Versjon,
				Versjon:          h.Versjon,
				Tilstand:         TilstandOpprettet,
				Kravgrunnlag:     *k,
			}
			byID[behandlingID] = b
			order = append(order, b)
			continue
		}

		b, ok := byID[behandlingID]
		if !ok {
			return nil, dErrors.New(dErrors.CodeInternal,
				fmt.Sprintf("hendelse %s refers to unknown behandling %s", h.ID, behandlingID))
		}
		b.Versjon = h.Versjon

		switch h.Type {
		case HendelseForhaandsvarslet:
			b.Forhaandsvarsler = append(b.Forhaandsvarsler, Forhaandsvarsel{Fritekst: data.Fritekst, Av: data.Utfoerer, Tidspunkt: h.Tidspunkt})
			b.Tilstand = TilstandUnderBehandling
		case HendelseVurdert:
			b.Vurderinger = data.Vurderinger
			b.Tilstand = TilstandUnderBehandling
		case HendelseVedtaksbrevOppdatert:
			brev := data.Fritekst
			b.Vedtaksbrev = &brev
			b.Tilstand = TilstandUnderBehandling
		case HendelseNotatOppdatert:
			b.Notat = data.Notat
		case HendelseKravgrunnlagOppdatert:
			k, ok := oppslag(data.KravgrunnlagHendelseID)
			if !ok {
				return nil, missingKravgrunnlag(behandlingID, data.KravgrunnlagHendelseID)
			}
			b.Kravgrunnlag = *k
			b.Vurderinger = nil
			b.Tilstand = TilstandUnderBehandling
		case HendelseTilAttestering:
			b.SendtTilAttesteringAv = data.Utfoerer
			b.Tilstand = TilstandTilAttestering
		case HendelseUnderkjent:
			b.Attesteringer = append(b.Attesteringer, Attestering{
				Utfall:    AttesteringUnderkjent,
				Attestant: data.Utfoerer,
				Grunn:     data.Grunn,
				Kommentar: data.Kommentar,
				Tidspunkt: h.Tidspunkt,
			})
			b.Tilstand = TilstandUnderkjent
		case HendelseIverksatt:
			b.Attesteringer = append(b.Attesteringer, Attestering{
				Utfall:    AttesteringIverksatt,
				Attestant: data.Utfoerer,
				Tidspunkt: h.Tidspunkt,
			})
			b.Tilstand = TilstandIverksatt
		case HendelseAvbrutt:
			b.Avbrutt = &Avbrutt{Begrunnelse: data.Begrunnelse, Av: data.Utfoerer, Tidspunkt: h.Tidspunkt}
			b.Tilstand = TilstandAvbrutt
		default:
			return nil, dErrors.New(dErrors.CodeInternal, "unknown behandling hendelse "+string(h.Type))
		}
	}
	return order, nil
}

// IverksatteKravgrunnlag returns a predicate telling whether a claim was the
// basis of an iverksatt behandling.
func IverksatteKravgrunnlag(behandlinger []*Tilbakekrevingsbehandling) func(id.HendelseID) bool {
	brukt := make(map[id.HendelseID]bool)
	for _, b := range behandlinger {
		if b.Tilstand == TilstandIverksatt {
			brukt[b.Kravgrunnlag.HendelseID] = true
		}
	}
	return func(hendelseID id.HendelseID) bool { return brukt[hendelseID] }
}

// Aapen returns the open behandling, if any.
func Aapen(behandlinger []*Tilbakekrevingsbehandling) *Tilbakekrevingsbehandling {
	for _, b := range behandlinger {
		if b.ErAapen() {
			return b
		}
	}
	return nil
}

func missingKravgrunnlag(behandlingID id.BehandlingID, hendelseID id.HendelseID) error {
	return dErrors.New(dErrors.CodeInternal,
		fmt.Sprintf("behandling %s refers to unknown kravgrunnlag %s", behandlingID, hendelseID))
}

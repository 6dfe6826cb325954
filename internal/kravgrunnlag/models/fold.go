package models

import (
	"sort"

	id "supstonad/pkg/domain"
)

// PaaSak is the folded claim view of one sak.
type PaaSak struct {
	detaljer        []KnyttetHendelse
	statusendringer []KnyttetHendelse
}

// Fold builds the view from a sak's KNYTTET_KRAVGRUNNLAG_TIL_SAK hendelser in any order.
func Fold(hendelser []KnyttetHendelse) *PaaSak {
	p := &PaaSak{}
	for _, h := range hendelser {
		switch {
		case h.Data.Detaljer != nil:
			p.detaljer = append(p.detaljer, h)
		case h.Data.Statusendring != nil:
			p.statusendringer = append(p.statusendringer, h)
		}
	}
	sort.SliceStable(p.detaljer, func(i, j int) bool {
		a, b := p.detaljer[i], p.detaljer[j]
		if !a.Data.Detaljer.EksternTidspunkt.Equal(b.Data.Detaljer.EksternTidspunkt) {
			return a.Data.Detaljer.EksternTidspunkt.Before(b.Data.Detaljer.EksternTidspunkt)
		}
		return a.Versjon < b.Versjon
	})
	sort.SliceStable(p.statusendringer, func(i, j int) bool {
		a, b := p.statusendringer[i], p.statusendringer[j]
		if !a.Data.Statusendring.EksternTidspunkt.Equal(b.Data.Statusendring.EksternTidspunkt) {
			return a.Data.Statusendring.EksternTidspunkt.Before(b.Data.Statusendring.EksternTidspunkt)
		}
		return a.Versjon < b.Versjon
	})
	return p
}

// Gjeldende returns the newest claim with the status of the last status change at
// or after the claim's own timestamp. Nil when the sak has no claim.
func (p *PaaSak) Gjeldende() *Kravgrunnlag {
	if len(p.detaljer) == 0 {
		return nil
	}
	siste := *p.detaljer[len(p.detaljer)-1].Data.Detaljer
	siste.Grunnlagsperioder = append([]Grunnlagsperiode(nil), siste.Grunnlagsperioder...)

	for _, s := range p.statusendringer {
		endring := s.Data.Statusendring
		if endring.EksternVedtakID != siste.EksternVedtakID {
			continue
		}
		if endring.EksternTidspunkt.Before(siste.EksternTidspunkt) {
			continue
		}
		siste.Status = endring.Status
	}
	return &siste
}

// Utestaaende returns the current claim when it can still be recouped: its status
// allows behandling and no iverksatt behandling has consumed it. erBehandlet
// reports whether the claim hendelse was the basis of an iverksatt behandling.
func (p *PaaSak) Utestaaende(erBehandlet func(kravgrunnlagHendelseID id.HendelseID) bool) *Kravgrunnlag {
	k := p.Gjeldende()
	if k == nil || !k.Status.KanBehandles() {
		return nil
	}
	if erBehandlet != nil && erBehandlet(k.HendelseID) {
		return nil
	}
	return k
}

// Alle returns every claim on the sak, oldest first, with its own status as issued.
func (p *PaaSak) Alle() []Kravgrunnlag {
	out := make([]Kravgrunnlag, len(p.detaljer))
	for i, d := range p.detaljer {
		out[i] = *d.Data.Detaljer
	}
	return out
}

// HarStatusendring reports whether a status change for the same vedtak and
// timestamp is already recorded. The linker uses it to skip re-deliveries.
func (p *PaaSak) HarStatusendring(s Statusendring) bool {
	for _, h := range p.statusendringer {
		e := h.Data.Statusendring
		if e.EksternVedtakID == s.EksternVedtakID && e.Status == s.Status && e.EksternTidspunkt.Equal(s.EksternTidspunkt) {
			return true
		}
	}
	return false
}

// HarKravgrunnlag reports whether a claim with the same ledger id and kontrollfelt is recorded.
func (p *PaaSak) HarKravgrunnlag(k Kravgrunnlag) bool {
	for _, h := range p.detaljer {
		d := h.Data.Detaljer
		if d.EksternKravgrunnlagID == k.EksternKravgrunnlagID && d.EksternKontrollfelt == k.EksternKontrollfelt {
			return true
		}
	}
	return false
}

// Hent returns the claim linked by hendelseID, with its status as issued.
func (p *PaaSak) Hent(hendelseID id.HendelseID) (*Kravgrunnlag, bool) {
	for _, d := range p.detaljer {
		if d.HendelseID == hendelseID {
			k := *d.Data.Detaljer
			k.Grunnlagsperioder = append([]Grunnlagsperiode(nil), k.Grunnlagsperioder...)
			return &k, true
		}
	}
	return nil, false
}

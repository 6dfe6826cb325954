// Package kravgrunnlagtest builds ledger XML messages for tests.
package kravgrunnlagtest

import (
	"fmt"
	"strings"
)

// Periode is one month in a generated claim.
type Periode struct {
	Fom                string // YYYY-MM-DD
	Tom                string
	BelopSkattMnd      string
	BelopOpprUtbet     string
	BelopNy            string
	BelopTilbakekreves string
	SkattProsent       string
}

// Detaljer describes a generated detaljertKravgrunnlagMelding.
type Detaljer struct {
	KravgrunnlagID string
	VedtakID       string
	Status         string // ledger code, e.g. NY
	Saksnummer     string
	Kontrollfelt   string
	UtbetalingID   string
	Perioder       []Periode
}

// StandardPeriode is a January 2024 period recouping 2000 with 4395 tax paid at 43.9983 %.
func StandardPeriode() Periode {
	return Periode{
		Fom:                "2024-01-01",
		Tom:                "2024-01-31",
		BelopSkattMnd:      "4395.00",
		BelopOpprUtbet:     "16989.00",
		BelopNy:            "14989.00",
		BelopTilbakekreves: "2000.00",
		SkattProsent:       "43.9983",
	}
}

// DetaljerXML renders d.
func DetaljerXML(d Detaljer) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urn:detaljertKravgrunnlagMelding xmlns:urn="urn:no:nav:tilbakekreving:kravgrunnlag:detalj:v1" xmlns:mmel="urn:no:nav:tilbakekreving:typer:v1">
  <urn:detaljertKravgrunnlag>
`)
	fmt.Fprintf(&b, "    <urn:kravgrunnlagId>%s</urn:kravgrunnlagId>\n", d.KravgrunnlagID)
	fmt.Fprintf(&b, "    <urn:vedtakId>%s</urn:vedtakId>\n", d.VedtakID)
	fmt.Fprintf(&b, "    <urn:kodeStatusKrav>%s</urn:kodeStatusKrav>\n", d.Status)
	b.WriteString("    <urn:kodeFagomraade>SUUFORE</urn:kodeFagomraade>\n")
	fmt.Fprintf(&b, "    <urn:fagsystemId>%s</urn:fagsystemId>\n", d.Saksnummer)
	fmt.Fprintf(&b, "    <urn:kontrollfelt>%s</urn:kontrollfelt>\n", d.Kontrollfelt)
	b.WriteString("    <urn:saksbehId>K231B433</urn:saksbehId>\n")
	fmt.Fprintf(&b, "    <urn:referanse>%s</urn:referanse>\n", d.UtbetalingID)
	for _, p := range d.Perioder {
		fmt.Fprintf(&b, `    <urn:tilbakekrevingsPeriode>
      <urn:periode><mmel:fom>%s</mmel:fom><mmel:tom>%s</mmel:tom></urn:periode>
      <urn:belopSkattMnd>%s</urn:belopSkattMnd>
      <urn:tilbakekrevingsBelop>
        <urn:kodeKlasse>SUUFORE</urn:kodeKlasse>
        <urn:typeKlasse>YTEL</urn:typeKlasse>
        <urn:belopOpprUtbet>%s</urn:belopOpprUtbet>
        <urn:belopNy>%s</urn:belopNy>
        <urn:belopTilbakekreves>%s</urn:belopTilbakekreves>
        <urn:belopUinnkrevd>0.00</urn:belopUinnkrevd>
        <urn:skattProsent>%s</urn:skattProsent>
      </urn:tilbakekrevingsBelop>
      <urn:tilbakekrevingsBelop>
        <urn:kodeKlasse>KL_KODE_FEIL_INNT</urn:kodeKlasse>
        <urn:typeKlasse>FEIL</urn:typeKlasse>
        <urn:belopOpprUtbet>0.00</urn:belopOpprUtbet>
        <urn:belopNy>%s</urn:belopNy>
        <urn:belopTilbakekreves>0.00</urn:belopTilbakekreves>
        <urn:belopUinnkrevd>0.00</urn:belopUinnkrevd>
        <urn:skattProsent>0.0000</urn:skattProsent>
      </urn:tilbakekrevingsBelop>
    </urn:tilbakekrevingsPeriode>
`, p.Fom, p.Tom, p.BelopSkattMnd, p.BelopOpprUtbet, p.BelopNy, p.BelopTilbakekreves, p.SkattProsent, p.BelopTilbakekreves)
	}
	b.WriteString("  </urn:detaljertKravgrunnlag>\n</urn:detaljertKravgrunnlagMelding>\n")
	return b.String()
}

// StatusXML renders an endringKravOgVedtakstatus message.
func StatusXML(vedtakID, statusKode, saksnummer string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<urn:endringKravOgVedtakstatus xmlns:urn="urn:no:nav:tilbakekreving:status:v1">
  <urn:kravOgVedtakstatus>
    <urn:vedtakId>%s</urn:vedtakId>
    <urn:kodeStatusKrav>%s</urn:kodeStatusKrav>
    <urn:kodeFagomraade>SUUFORE</urn:kodeFagomraade>
    <urn:fagsystemId>%s</urn:fagsystemId>
    <urn:vedtakGjelderId>18108619852</urn:vedtakGjelderId>
    <urn:idTypeGjelder>PERSON</urn:idTypeGjelder>
  </urn:kravOgVedtakstatus>
</urn:endringKravOgVedtakstatus>
`, vedtakID, statusKode, saksnummer)
}

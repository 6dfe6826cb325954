// Package parser turns the ledger's kravgrunnlag XML messages into domain values.
package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"supstonad/internal/kravgrunnlag/models"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
)

const (
	rootDetaljer      = "detaljertKravgrunnlagMelding"
	rootStatusendring = "endringKravOgVedtakstatus"

	kontrollfeltLayout = "2006-01-02-15.04.05.000000"
	klasseYtelse       = "YTEL"
)

var oslo = mustLoadOslo()

func mustLoadOslo() *time.Location {
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		panic(err)
	}
	return loc
}

// Resultat holds exactly one of Kravgrunnlag and Statusendring.
type Resultat struct {
	Kravgrunnlag  *models.Kravgrunnlag
	Statusendring *models.Statusendring
}

// Saksnummer returns the saksnummer the message concerns.
func (r Resultat) Saksnummer() id.Saksnummer {
	if r.Kravgrunnlag != nil {
		return r.Kravgrunnlag.Saksnummer
	}
	if r.Statusendring != nil {
		return r.Statusendring.Saksnummer
	}
	return 0
}

type detaljertMelding struct {
	Krav struct {
		KravgrunnlagID string       `xml:"kravgrunnlagId"`
		VedtakID       string       `xml:"vedtakId"`
		KodeStatusKrav string       `xml:"kodeStatusKrav"`
		FagsystemID    string       `xml:"fagsystemId"`
		Kontrollfelt   string       `xml:"kontrollfelt"`
		SaksbehID      string       `xml:"saksbehId"`
		Referanse      string       `xml:"referanse"`
		Perioder       []xmlPeriode `xml:"tilbakekrevingsPeriode"`
	} `xml:"detaljertKravgrunnlag"`
}

type xmlPeriode struct {
	Periode struct {
		Fom string `xml:"fom"`
		Tom string `xml:"tom"`
	} `xml:"periode"`
	BelopSkattMnd string     `xml:"belopSkattMnd"`
	Belop         []xmlBelop `xml:"tilbakekrevingsBelop"`
}

type xmlBelop struct {
	TypeKlasse         string `xml:"typeKlasse"`
	BelopOpprUtbet     string `xml:"belopOpprUtbet"`
	BelopNy            string `xml:"belopNy"`
	BelopTilbakekreves string `xml:"belopTilbakekreves"`
	SkattProsent       string `xml:"skattProsent"`
}

type statusMelding struct {
	Status struct {
		VedtakID       string `xml:"vedtakId"`
		KodeStatusKrav string `xml:"kodeStatusKrav"`
		FagsystemID    string `xml:"fagsystemId"`
	} `xml:"kravOgVedtakstatus"`
}

// Parse decodes a raw message. Status changes carry no timestamp of their own, so
// mottatt (when the message was received) is used.
func Parse(melding string, mottatt time.Time) (Resultat, error) {
	root, err := rootElement(melding)
	if err != nil {
		return Resultat{}, err
	}
	switch root {
	case rootDetaljer:
		k, err := parseDetaljer(melding)
		if err != nil {
			return Resultat{}, err
		}
		return Resultat{Kravgrunnlag: k}, nil
	case rootStatusendring:
		s, err := parseStatus(melding, mottatt)
		if err != nil {
			return Resultat{}, err
		}
		return Resultat{Statusendring: s}, nil
	default:
		return Resultat{}, dErrors.New(dErrors.CodeInvalidInput, "ukjent kravgrunnlagmelding: "+root)
	}
}

func rootElement(melding string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(melding))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "tom kravgrunnlagmelding")
		}
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "ugyldig xml")
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

func parseDetaljer(melding string) (*models.Kravgrunnlag, error) {
	var m detaljertMelding
	if err := xml.Unmarshal([]byte(melding), &m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "ugyldig detaljert kravgrunnlag")
	}
	krav := m.Krav

	status, err := models.ParseStatusKode(krav.KodeStatusKrav)
	if err != nil {
		return nil, err
	}
	saksnummer, err := id.ParseSaksnummer(krav.FagsystemID)
	if err != nil {
		return nil, err
	}
	tidspunkt, err := ParseKontrollfelt(krav.Kontrollfelt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(krav.KravgrunnlagID) == "" || strings.TrimSpace(krav.VedtakID) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "kravgrunnlagId og vedtakId er påkrevd")
	}
	if len(krav.Perioder) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "kravgrunnlaget mangler perioder")
	}

	perioder := make([]models.Grunnlagsperiode, 0, len(krav.Perioder))
	seen := make(map[models.Maaned]struct{}, len(krav.Perioder))
	for _, p := range krav.Perioder {
		gp, err := parsePeriode(p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[gp.Maaned]; dup {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "duplikat måned i kravgrunnlag: "+string(gp.Maaned))
		}
		seen[gp.Maaned] = struct{}{}
		perioder = append(perioder, gp)
	}

	return &models.Kravgrunnlag{
		EksternKravgrunnlagID: strings.TrimSpace(krav.KravgrunnlagID),
		EksternVedtakID:       strings.TrimSpace(krav.VedtakID),
		EksternKontrollfelt:   strings.TrimSpace(krav.Kontrollfelt),
		EksternTidspunkt:      tidspunkt,
		Status:                status,
		Behandler:             strings.TrimSpace(krav.SaksbehID),
		UtbetalingID:          id.UtbetalingID(strings.TrimSpace(krav.Referanse)),
		Saksnummer:            saksnummer,
		Grunnlagsperioder:     perioder,
	}, nil
}

func parsePeriode(p xmlPeriode) (models.Grunnlagsperiode, error) {
	maaned, err := models.ParseMaaned(strings.TrimSpace(p.Periode.Fom))
	if err != nil {
		return models.Grunnlagsperiode{}, err
	}
	skatt, err := parseBelop(p.BelopSkattMnd, "belopSkattMnd")
	if err != nil {
		return models.Grunnlagsperiode{}, err
	}

	gp := models.Grunnlagsperiode{
		Maaned:                       maaned,
		BetaltSkattForYtelsesgruppen: skatt,
		BruttoTidligereUtbetalt:      decimal.Zero,
		BruttoNyUtbetaling:           decimal.Zero,
		BruttoFeilutbetaling:         decimal.Zero,
		SkatteProsent:                decimal.Zero,
	}
	found := false
	for _, b := range p.Belop {
		if strings.TrimSpace(b.TypeKlasse) != klasseYtelse {
			continue
		}
		found = true
		opprinnelig, err := parseBelop(b.BelopOpprUtbet, "belopOpprUtbet")
		if err != nil {
			return gp, err
		}
		ny, err := parseBelop(b.BelopNy, "belopNy")
		if err != nil {
			return gp, err
		}
		tilbakekreves, err := parseBelop(b.BelopTilbakekreves, "belopTilbakekreves")
		if err != nil {
			return gp, err
		}
		prosent, err := parseBelop(b.SkattProsent, "skattProsent")
		if err != nil {
			return gp, err
		}
		gp.BruttoTidligereUtbetalt = gp.BruttoTidligereUtbetalt.Add(opprinnelig)
		gp.BruttoNyUtbetaling = gp.BruttoNyUtbetaling.Add(ny)
		gp.BruttoFeilutbetaling = gp.BruttoFeilutbetaling.Add(tilbakekreves)
		gp.SkatteProsent = prosent
	}
	if !found {
		return gp, dErrors.New(dErrors.CodeInvalidInput, "perioden "+string(maaned)+" mangler ytelseslinje")
	}
	return gp, nil
}

func parseBelop(s, felt string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInvalidInput, "ugyldig beløp i "+felt)
	}
	return d, nil
}

func parseStatus(melding string, mottatt time.Time) (*models.Statusendring, error) {
	var m statusMelding
	if err := xml.Unmarshal([]byte(melding), &m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "ugyldig statusmelding")
	}
	status, err := models.ParseStatusKode(m.Status.KodeStatusKrav)
	if err != nil {
		return nil, err
	}
	saksnummer, err := id.ParseSaksnummer(m.Status.FagsystemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.Status.VedtakID) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "vedtakId er påkrevd")
	}
	if mottatt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mottatt-tidspunkt mangler")
	}
	return &models.Statusendring{
		EksternVedtakID:  strings.TrimSpace(m.Status.VedtakID),
		Status:           status,
		EksternTidspunkt: mottatt.UTC(),
		Saksnummer:       saksnummer,
	}, nil
}

// ParseKontrollfelt reads the ledger's kontrollfelt (Oslo local time, microseconds).
func ParseKontrollfelt(s string) (time.Time, error) {
	t, err := time.ParseInLocation(kontrollfeltLayout, strings.TrimSpace(s), oslo)
	if err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("ugyldig kontrollfelt %q", s))
	}
	return t.UTC(), nil
}

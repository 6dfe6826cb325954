package domain

import (
	"strconv"
	"strings"

	dErrors "supstonad/pkg/domain-errors"
)

// Fnr is an 11-digit Norwegian national identity number.
type Fnr string

// ParseFnr validates length and digits. Checksum validation is left to the
// population registry.
func ParseFnr(s string) (Fnr, error) {
	s = strings.TrimSpace(s)
	if len(s) != 11 || !allDigits(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "fnr must be 11 digits")
	}
	return Fnr(s), nil
}

func (f Fnr) String() string { return string(f) }

// Saksnummer is the human-facing, sequential sak number. Numbering starts at 2021.
type Saksnummer int64

const FoersteSaksnummer Saksnummer = 2021

// ParseSaksnummer parses a saksnummer as sent by the ledger.
func ParseSaksnummer(s string) (Saksnummer, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "saksnummer must be numeric")
	}
	if Saksnummer(n) < FoersteSaksnummer {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "saksnummer is below the first allocated number")
	}
	return Saksnummer(n), nil
}

func (s Saksnummer) String() string { return strconv.FormatInt(int64(s), 10) }

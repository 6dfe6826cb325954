// Package domain holds typed identifiers and small value types shared across modules.
// Parse functions are the trust boundary: values built from raw strings must go
// through them.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "supstonad/pkg/domain-errors"
)

// SakID identifies a sak (a claimant's benefit case).
type SakID uuid.UUID

// BehandlingID identifies a tilbakekrevingsbehandling.
type BehandlingID uuid.UUID

// HendelseID identifies an entry in the hendelse log.
type HendelseID uuid.UUID

// UtbetalingID identifies the utbetaling a kravgrunnlag was raised against.
type UtbetalingID string

func NewSakID() SakID { return SakID(uuid.New()) }
func NewBehandlingID() BehandlingID { return BehandlingID(uuid.New()) }
func NewHendelseID() HendelseID { return HendelseID(uuid.New()) }

func (i SakID) String() string { return uuid.UUID(i).String() }
func (i BehandlingID) String() string { return uuid.UUID(i).String() }
func (i HendelseID) String() string { return uuid.UUID(i).String() }

func (i SakID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i BehandlingID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i HendelseID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }

// ParseSakID parses and validates a sak id.
func ParseSakID(s string) (SakID, error) {
	u, err := parseUUID(s, "sak id")
	return SakID(u), err
}

// ParseBehandlingID parses and validates a behandling id.
func ParseBehandlingID(s string) (BehandlingID, error) {
	u, err := parseUUID(s, "behandling id")
	return BehandlingID(u), err
}

// ParseHendelseID parses and validates a hendelse id.
func ParseHendelseID(s string) (HendelseID, error) {
	u, err := parseUUID(s, "hendelse id")
	return HendelseID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if len(s) > 36 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// NavIdent is a NAV employee ident (one letter followed by six digits).
type NavIdent string

// ParseNavIdent validates a NAV ident.
func ParseNavIdent(s string) (NavIdent, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] < 'A' || s[0] > 'Z' || !allDigits(s[1:]) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid nav ident")
	}
	return NavIdent(s), nil
}

func (n NavIdent) String() string { return string(n) }

// Rolle is an authorization role derived from the caller's AD groups.
type Rolle string

const (
	RolleSaksbehandler    Rolle = "Saksbehandler"
	RolleAttestant        Rolle = "Attestant"
	RolleDrift            Rolle = "Drift"
	RolleStrengtFortrolig Rolle = "StrengtFortrolig"
)

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (i SakID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i BehandlingID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }
func (i HendelseID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }

func (i *SakID) UnmarshalText(b []byte) error { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *BehandlingID) UnmarshalText(b []byte) error { return (*uuid.UUID)(i).UnmarshalText(b) }
func (i *HendelseID) UnmarshalText(b []byte) error { return (*uuid.UUID)(i).UnmarshalText(b) }

// Package models defines the append-only hendelse log entries that every other
// module folds its state from.
package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/requestcontext"
)

// Type names the kind of hendelse, e.g. "TILBAKEKREVINGSBEHANDLING_OPPRETTET".
type Type string

// Versjon is the per-sak hendelse version. The first hendelse on a sak is 1;
// every subsequent sak-scoped hendelse takes the next number.
type Versjon int64

const FoersteVersjon Versjon = 1

// Neste returns the version the next hendelse on the sak must carry.
func (v Versjon) Neste() Versjon { return v + 1 }

// KonsumentID names a job that processes hendelser exactly once per hendelse.
type KonsumentID string

// Metadata is stored alongside each hendelse for traceability.
type Metadata struct {
	CorrelationID string   `json:"correlationId,omitempty"`
	Ident         string   `json:"ident,omitempty"`
	Roller        []string `json:"roller,omitempty"`
}

// MetadataFra reads the caller and correlation id from the context.
func MetadataFra(ctx context.Context) Metadata {
	meta := Metadata{
		CorrelationID: requestcontext.CorrelationID(ctx),
		Ident:         string(requestcontext.NavIdent(ctx)),
	}
	for _, r := range requestcontext.Roller(ctx) {
		meta.Roller = append(meta.Roller, string(r))
	}
	return meta
}

// Hendelse is one entry in the log. Sak-scoped hendelser carry SakID and Versjon;
// hendelser received before they can be tied to a sak carry neither.
type Hendelse struct {
	ID                  id.HendelseID
	SakID               id.SakID
	Versjon             Versjon
	Type                Type
	EntitetID           uuid.UUID
	TidligereHendelseID id.HendelseID
	Tidspunkt           time.Time
	Data                json.RawMessage
	Meta                Metadata
	// MeldingID is the id an external message arrived with. Unique per Type.
	MeldingID string
}

// HarSak reports whether the hendelse is tied to a sak.
func (h *Hendelse) HarSak() bool { return !h.SakID.IsNil() }

// Decode unmarshals Data into v.
func (h *Hendelse) Decode(v any) error {
	if err := json.Unmarshal(h.Data, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decode hendelse "+string(h.Type))
	}
	return nil
}

// NySakshendelse builds a sak-scoped hendelse at versjon.
func NySakshendelse(sakID id.SakID, versjon Versjon, typ Type, entitetID uuid.UUID, tidspunkt time.Time, data any, meta Metadata) (*Hendelse, error) {
	if sakID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sak-scoped hendelse requires a sak id")
	}
	if versjon < FoersteVersjon {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hendelse versjon must be at least 1")
	}
	h, err := ny(typ, tidspunkt, data, meta)
	if err != nil {
		return nil, err
	}
	h.SakID = sakID
	h.Versjon = versjon
	h.EntitetID = entitetID
	return h, nil
}

// NyHendelseUtenSak builds a hendelse that is not (yet) tied to a sak.
func NyHendelseUtenSak(typ Type, tidspunkt time.Time, meldingID string, data any, meta Metadata) (*Hendelse, error) {
	h, err := ny(typ, tidspunkt, data, meta)
	if err != nil {
		return nil, err
	}
	h.MeldingID = meldingID
	return h, nil
}

func ny(typ Type, tidspunkt time.Time, data any, meta Metadata) (*Hendelse, error) {
	if typ == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hendelse type is required")
	}
	if tidspunkt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hendelse tidspunkt is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode hendelse "+string(typ))
	}
	return &Hendelse{
		ID:        id.NewHendelseID(),
		Type:      typ,
		Tidspunkt: tidspunkt.UTC(),
		Data:      raw,
		Meta:      meta,
	}, nil
}

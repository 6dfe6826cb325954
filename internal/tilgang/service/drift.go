package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/requestcontext"
)

// BeskyttetPersonRegister maintains the protected-person table.
type BeskyttetPersonRegister interface {
	Registrer(ctx context.Context, fnr id.Fnr, gradering string, tidspunkt time.Time) error
	Fjern(ctx context.Context, fnr id.Fnr) error
}

// Invalidator drops cached access decisions for a person.
type Invalidator interface {
	Invalider(ctx context.Context, fnr id.Fnr) error
}

var graderinger = []string{"STRENGT_FORTROLIG", "STRENGT_FORTROLIG_UTLAND"}

// Drift lets operators flag and unflag protected persons.
type Drift struct {
	register    BeskyttetPersonRegister
	invalidator Invalidator
	logger      *slog.Logger
}

// NewDrift constructs Drift. invalidator may be nil when no cache is configured.
func NewDrift(register BeskyttetPersonRegister, invalidator Invalidator, logger *slog.Logger) *Drift {
	return &Drift{register: register, invalidator: invalidator, logger: logger}
}

// MarkerBeskyttet flags fnr as protected and drops cached decisions for it.
func (d *Drift) MarkerBeskyttet(ctx context.Context, fnr id.Fnr, gradering string) error {
	gradering = strings.ToUpper(strings.TrimSpace(gradering))
	if !slices.Contains(graderinger, gradering) {
		return dErrors.New(dErrors.CodeValidation, "ukjent gradering")
	}
	if err := d.register.Registrer(ctx, fnr, gradering, requestcontext.Now(ctx)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register protected person")
	}
	d.logger.InfoContext(ctx, "person marked as protected",
		"nav_ident", requestcontext.NavIdent(ctx).String(),
		"gradering", gradering,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d.invalider(ctx, fnr)
}

// FjernBeskyttelse removes the flag.
func (d *Drift) FjernBeskyttelse(ctx context.Context, fnr id.Fnr) error {
	if err := d.register.Fjern(ctx, fnr); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove protected person")
	}
	d.logger.InfoContext(ctx, "person protection removed",
		"nav_ident", requestcontext.NavIdent(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return d.invalider(ctx, fnr)
}

func (d *Drift) invalider(ctx context.Context, fnr id.Fnr) error {
	if d.invalidator == nil {
		return nil
	}
	if err := d.invalidator.Invalider(ctx, fnr); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate access cache")
	}
	return nil
}

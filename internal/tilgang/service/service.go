// Package service decides whether the caller may work on a sak: the caller needs
// one of the required roles and access to the person the sak concerns.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/platform/sentinel"
	"supstonad/pkg/requestcontext"
)

var (
	ErrIkkeTilgang = dErrors.NewKode(dErrors.CodeForbidden, "ikke_tilgang", "mangler tilgang")
	ErrFantIkkeSak = dErrors.NewKode(dErrors.CodeNotFound, "fant_ikke_sak", "fant ikke sak")
)

// SakOppslag resolves the person a sak concerns.
type SakOppslag interface {
	HentFnr(ctx context.Context, sakID id.SakID) (id.Fnr, error)
}

// PersonTilgang decides access to a person's data.
type PersonTilgang interface {
	HarTilgang(ctx context.Context, ident id.NavIdent, roller []id.Rolle, fnr id.Fnr) (bool, error)
}

// Service performs access checks.
type Service struct {
	saker    SakOppslag
	personer PersonTilgang
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(saker SakOppslag, personer PersonTilgang, opts ...Option) *Service {
	s := &Service{saker: saker, personer: personer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sjekk fails with ErrIkkeTilgang unless the caller has one of roller and may see
// the person on the sak.
func (s *Service) Sjekk(ctx context.Context, sakID id.SakID, roller ...id.Rolle) error {
	if err := s.sjekkRolle(ctx, roller); err != nil {
		return err
	}
	fnr, err := s.saker.HentFnr(ctx, sakID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return ErrFantIkkeSak
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve sak for access check")
	}
	return s.sjekkPerson(ctx, fnr, "sak_id", sakID.String())
}

// SjekkPerson is Sjekk for a person without a sak, e.g. before a sak is created.
func (s *Service) SjekkPerson(ctx context.Context, fnr id.Fnr, roller ...id.Rolle) error {
	if err := s.sjekkRolle(ctx, roller); err != nil {
		return err
	}
	return s.sjekkPerson(ctx, fnr)
}

func (s *Service) sjekkRolle(ctx context.Context, roller []id.Rolle) error {
	ident := requestcontext.NavIdent(ctx)
	if ident == "" {
		return ErrIkkeTilgang
	}
	if len(roller) == 0 {
		return nil
	}
	for _, r := range requestcontext.Roller(ctx) {
		if slices.Contains(roller, r) {
			return nil
		}
	}
	s.logger.WarnContext(ctx, "access denied - missing role",
		"nav_ident", string(ident),
		"required", roller,
		"request_id", requestcontext.RequestID(ctx),
	)
	return ErrIkkeTilgang
}

func (s *Service) sjekkPerson(ctx context.Context, fnr id.Fnr, attrs ...any) error {
	ident := requestcontext.NavIdent(ctx)
	ok, err := s.personer.HarTilgang(ctx, ident, requestcontext.Roller(ctx), fnr)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check person access")
	}
	if !ok {
		s.logger.WarnContext(ctx, "access denied - protected person",
			append([]any{"nav_ident", string(ident), "request_id", requestcontext.RequestID(ctx)}, attrs...)...,
		)
		return ErrIkkeTilgang
	}
	return nil
}

package testutil

import (
	"context"
	"net/http"
	"time"

	id "supstonad/pkg/domain"
	"supstonad/pkg/requestcontext"
)

// Saksbehandler and Attestant are the default callers used across tests.
const (
	Saksbehandler id.NavIdent = "Z990001"
	Attestant     id.NavIdent = "Z990002"
)

// FixedTime is the request time used by service tests.
var FixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// SaksbehandlerCtx returns a context for a caller holding the saksbehandler role.
func SaksbehandlerCtx() context.Context {
	ctx := requestcontext.WithBruker(context.Background(), Saksbehandler, []id.Rolle{id.RolleSaksbehandler})
	return requestcontext.WithTime(ctx, FixedTime)
}

// AttestantCtx returns a context for a caller holding both roles, so four-eyes
// checks are what separates it from the saksbehandler.
func AttestantCtx() context.Context {
	ctx := requestcontext.WithBruker(context.Background(), Attestant, []id.Rolle{id.RolleSaksbehandler, id.RolleAttestant})
	return requestcontext.WithTime(ctx, FixedTime.Add(time.Hour))
}

// WithBruker adds an authenticated caller to the request context, as the auth
// middleware would.
func WithBruker(req *http.Request, ident id.NavIdent, roller ...id.Rolle) *http.Request {
	return req.WithContext(requestcontext.WithBruker(req.Context(), ident, roller))
}

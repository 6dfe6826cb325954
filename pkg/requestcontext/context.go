// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets the values; services and stores read them. Keeping this package free of
// net/http lets workers and the Kafka consumer populate the same values.
//
// Usage in services (read values):
//
//	ident := requestcontext.NavIdent(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithBruker(ctx, "Z990001", []id.Rolle{id.RolleSaksbehandler})
package requestcontext

import (
	"context"
	"time"

	id "supstonad/pkg/domain"
)

type (
	navIdentKey      struct{}
	rollerKey        struct{}
	requestIDKey     struct{}
	correlationIDKey struct{}
	requestTimeKey   struct{}
)

var (
	ContextKeyNavIdent      = navIdentKey{}
	ContextKeyRoller        = rollerKey{}
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyCorrelationID = correlationIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Authenticated caller
// -----------------------------------------------------------------------------

// NavIdent returns the authenticated caller's NAV ident, or the zero value.
func NavIdent(ctx context.Context) id.NavIdent {
	if ident, ok := ctx.Value(ContextKeyNavIdent).(id.NavIdent); ok {
		return ident
	}
	return ""
}

// Roller returns the caller's roles.
func Roller(ctx context.Context) []id.Rolle {
	if roller, ok := ctx.Value(ContextKeyRoller).([]id.Rolle); ok {
		return roller
	}
	return nil
}

// HarRolle reports whether the caller has the role.
func HarRolle(ctx context.Context, rolle id.Rolle) bool {
	for _, r := range Roller(ctx) {
		if r == rolle {
			return true
		}
	}
	return false
}

// WithBruker injects the caller identity and roles.
func WithBruker(ctx context.Context, ident id.NavIdent, roller []id.Rolle) context.Context {
	ctx = context.WithValue(ctx, ContextKeyNavIdent, ident)
	return context.WithValue(ctx, ContextKeyRoller, roller)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// CorrelationID returns the correlation id, falling back to the request id.
func CorrelationID(ctx context.Context) string {
	if cid, ok := ctx.Value(ContextKeyCorrelationID).(string); ok && cid != "" {
		return cid
	}
	return RequestID(ctx)
}

// WithCorrelationID injects a correlation id (set by consumers and jobs).
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationID, correlationID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

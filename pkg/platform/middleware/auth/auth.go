package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "supstonad/pkg/domain"
	request "supstonad/pkg/platform/middleware/request"
	"supstonad/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the caller it identifies.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims is the authenticated caller.
type Claims struct {
	NavIdent id.NavIdent
	Roller   []id.Rolle
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and stores the caller
// identity in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithBruker(ctx, claims.NavIdent, claims.Roller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package auth

import (
	"log/slog"
	"net/http"

	id "supstonad/pkg/domain"
	request "supstonad/pkg/platform/middleware/request"
	"supstonad/pkg/requestcontext"
)

// RequireRolle rejects callers that lack rolle. Mount it after RequireAuth.
func RequireRolle(rolle id.Rolle, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !requestcontext.HarRolle(ctx, rolle) {
				logger.WarnContext(ctx, "forbidden - missing role",
					"rolle", string(rolle),
					"nav_ident", string(requestcontext.NavIdent(ctx)),
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "missing required role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package handler exposes operator endpoints for the protected-person register.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/httputil"
	"supstonad/pkg/requestcontext"
)

type Service interface {
	MarkerBeskyttet(ctx context.Context, fnr id.Fnr, gradering string) error
	FjernBeskyttelse(ctx context.Context, fnr id.Fnr) error
}

// MarkerBeskyttetRequest is the body of POST /drift/beskyttet-person.
type MarkerBeskyttetRequest struct {
	Fnr       string `json:"fnr" validate:"required,len=11,numeric"`
	Gradering string `json:"gradering" validate:"required"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the drift endpoints. Callers must guard the router with the Drift role.
func (h *Handler) Register(r chi.Router) {
	r.Post("/drift/beskyttet-person", h.HandleMarkerBeskyttet)
	r.Delete("/drift/beskyttet-person/{fnr}", h.HandleFjernBeskyttelse)
}

func (h *Handler) HandleMarkerBeskyttet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MarkerBeskyttetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.MarkerBeskyttet(ctx, id.Fnr(req.Fnr), req.Gradering); err != nil {
		h.logger.ErrorContext(ctx, "failed to mark person as protected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleFjernBeskyttelse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	fnr, err := id.ParseFnr(chi.URLParam(r, "fnr"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.FjernBeskyttelse(ctx, fnr); err != nil {
		h.logger.ErrorContext(ctx, "failed to remove person protection",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"supstonad/internal/sak/models"
	id "supstonad/pkg/domain"
	"supstonad/pkg/platform/httputil"
	"supstonad/pkg/requestcontext"
)

// Service defines the sak operations the handler needs.
type Service interface {
	Opprett(ctx context.Context, fnr id.Fnr) (*models.Sak, error)
	Hent(ctx context.Context, sakID id.SakID) (*models.SakDetaljer, error)
	HentForSaksnummer(ctx context.Context, saksnummer id.Saksnummer) (*models.SakDetaljer, error)
}

// Handler wires sak endpoints to the sak service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a sak handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts sak endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/saker", h.HandleOpprett)
	r.Get("/saker/saksnummer/{saksnummer}", h.HandleHentForSaksnummer)
	r.Get("/saker/{sakId}", h.HandleHent)
}

// HandleOpprett handles POST /saker.
func (h *Handler) HandleOpprett(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[OpprettSakRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sak, err := h.service.Opprett(ctx, req.ParsedFnr())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create sak",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sak created",
		"request_id", requestID,
		"sak_id", sak.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toSakResponse(sak))
}

// HandleHent handles GET /saker/{sakId}.
func (h *Handler) HandleHent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sakID, err := id.ParseSakID(chi.URLParam(r, "sakId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detaljer, err := h.service.Hent(ctx, sakID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get sak",
			"request_id", requestID,
			"sak_id", sakID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSakDetaljerResponse(detaljer))
}

// HandleHentForSaksnummer handles GET /saker/saksnummer/{saksnummer}.
func (h *Handler) HandleHentForSaksnummer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	saksnummer, err := id.ParseSaksnummer(chi.URLParam(r, "saksnummer"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detaljer, err := h.service.HentForSaksnummer(ctx, saksnummer)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get sak by saksnummer",
			"request_id", requestID,
			"saksnummer", saksnummer.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSakDetaljerResponse(detaljer))
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	hendelse "supstonad/internal/hendelse/models"
	"supstonad/internal/tilbakekreving/models"
	"supstonad/internal/tilbakekreving/service"
	id "supstonad/pkg/domain"
	dErrors "supstonad/pkg/domain-errors"
	"supstonad/pkg/platform/httputil"
	"supstonad/pkg/requestcontext"
)

// Service defines the behandling operations the handler needs.
type Service interface {
	Opprett(ctx context.Context, sakID id.SakID, klientensSisteSaksversjon hendelse.Versjon) (*models.Tilbakekrevingsbehandling, error)
	Hent(ctx context.Context, sakID id.SakID, behandlingID id.BehandlingID) (*models.Tilbakekrevingsbehandling, error)
	HentForSak(ctx context.Context, sakID id.SakID) ([]*models.Tilbakekrevingsbehandling, error)
	Forhaandsvarsle(ctx context.Context, k service.Kommando, fritekst string) (*models.Tilbakekrevingsbehandling, error)
	Vurder(ctx context.Context, k service.Kommando, perioder []models.Vurderingsperiode) (*models.Tilbakekrevingsbehandling, error)
	OppdaterVedtaksbrev(ctx context.Context, k service.Kommando, fritekst string) (*models.Tilbakekrevingsbehandling, error)
	OppdaterNotat(ctx context.Context, k service.Kommando, notat string) (*models.Tilbakekrevingsbehandling, error)
	OppdaterKravgrunnlag(ctx context.Context, k service.Kommando) (*models.Tilbakekrevingsbehandling, error)
	SendTilAttestering(ctx context.Context, k service.Kommando) (*models.Tilbakekrevingsbehandling, error)
	Underkjenn(ctx context.Context, k service.Kommando, grunn models.UnderkjennGrunn, kommentar string) (*models.Tilbakekrevingsbehandling, error)
	Iverksett(ctx context.Context, k service.Kommando) (*models.Tilbakekrevingsbehandling, error)
	Avbryt(ctx context.Context, k service.Kommando, begrunnelse string) (*models.Tilbakekrevingsbehandling, error)
}

// Handler wires tilbakekreving endpoints to the workflow service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a tilbakekreving handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the endpoints under /saker/{sakId}/tilbakekreving.
func (h *Handler) Register(r chi.Router) {
	r.Route("/saker/{sakId}/tilbakekreving", func(r chi.Router) {
		r.Get("/", h.HandleHentForSak)
		r.Post("/ny", h.HandleOpprett)
		r.Get("/{behandlingId}", h.HandleHent)

		r.Post("/{behandlingId}/forhandsvarsel", kommando(h, "forhandsvarsel",
			func(ctx context.Context, k service.Kommando, req *FritekstRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.Forhaandsvarsle(ctx, k, req.Fritekst)
			}))
		r.Post("/{behandlingId}/vurder", kommando(h, "vurder",
			func(ctx context.Context, k service.Kommando, req *VurderRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.Vurder(ctx, k, req.parsed)
			}))
		r.Post("/{behandlingId}/brev", kommando(h, "brev",
			func(ctx context.Context, k service.Kommando, req *FritekstRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.OppdaterVedtaksbrev(ctx, k, req.Fritekst)
			}))
		r.Post("/{behandlingId}/notat", kommando(h, "notat",
			func(ctx context.Context, k service.Kommando, req *NotatRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.OppdaterNotat(ctx, k, req.Notat)
			}))
		r.Post("/{behandlingId}/kravgrunnlag", kommando(h, "kravgrunnlag",
			func(ctx context.Context, k service.Kommando, _ *VersjonRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.OppdaterKravgrunnlag(ctx, k)
			}))
		r.Post("/{behandlingId}/tilAttestering", kommando(h, "tilAttestering",
			func(ctx context.Context, k service.Kommando, _ *VersjonRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.SendTilAttestering(ctx, k)
			}))
		r.Post("/{behandlingId}/underkjenn", kommando(h, "underkjenn",
			func(ctx context.Context, k service.Kommando, req *UnderkjennRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.Underkjenn(ctx, k, req.parsedGrunn, req.Kommentar)
			}))
		r.Post("/{behandlingId}/iverksett", kommando(h, "iverksett",
			func(ctx context.Context, k service.Kommando, _ *VersjonRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.Iverksett(ctx, k)
			}))
		r.Post("/{behandlingId}/avbryt", kommando(h, "avbryt",
			func(ctx context.Context, k service.Kommando, req *AvbrytRequest) (*models.Tilbakekrevingsbehandling, error) {
				return h.service.Avbryt(ctx, k, req.Begrunnelse)
			}))
	})
}

// HandleOpprett handles POST /saker/{sakId}/tilbakekreving/ny.
func (h *Handler) HandleOpprett(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	sakID, err := id.ParseSakID(chi.URLParam(r, "sakId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[VersjonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	b, err := h.service.Opprett(ctx, sakID, req.versjon())
	if err != nil {
		h.logFailure(ctx, "opprett", sakID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "tilbakekrevingsbehandling opprettet",
		"request_id", requestID,
		"sak_id", sakID.String(),
		"behandling_id", b.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toBehandlingResponse(b))
}

// HandleHentForSak handles GET /saker/{sakId}/tilbakekreving.
func (h *Handler) HandleHentForSak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sakID, err := id.ParseSakID(chi.URLParam(r, "sakId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	bs, err := h.service.HentForSak(ctx, sakID)
	if err != nil {
		h.logFailure(ctx, "hent for sak", sakID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBehandlingerResponse(bs))
}

// HandleHent handles GET /saker/{sakId}/tilbakekreving/{behandlingId}.
func (h *Handler) HandleHent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sakID, behandlingID, err := parseIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.service.Hent(ctx, sakID, behandlingID)
	if err != nil {
		h.logFailure(ctx, "hent", sakID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBehandlingResponse(b))
}

// kommando builds a handler for a command on an existing behandling: parse the
// path, decode and validate T, run utfoer and render the updated behandling.
func kommando[T any](h *Handler, operasjon string, utfoer func(ctx context.Context, k service.Kommando, req *T) (*models.Tilbakekrevingsbehandling, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)
		start := time.Now()

		sakID, behandlingID, err := parseIDs(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		req, ok := httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		v, ok := any(req).(versjonert)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "request carries no version"))
			return
		}

		b, err := utfoer(ctx, service.Kommando{
			SakID:                     sakID,
			BehandlingID:              behandlingID,
			KlientensSisteSaksversjon: v.versjon(),
		}, req)
		if err != nil {
			h.logFailure(ctx, operasjon, sakID, err)
			httputil.WriteError(w, err)
			return
		}

		h.logger.InfoContext(ctx, "tilbakekrevingsbehandling command handled",
			"request_id", requestID,
			"operasjon", operasjon,
			"sak_id", sakID.String(),
			"behandling_id", behandlingID.String(),
			"tilstand", string(b.Tilstand),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		httputil.WriteJSON(w, http.StatusOK, toBehandlingResponse(b))
	}
}

func parseIDs(r *http.Request) (id.SakID, id.BehandlingID, error) {
	sakID, err := id.ParseSakID(chi.URLParam(r, "sakId"))
	if err != nil {
		return id.SakID{}, id.BehandlingID{}, err
	}
	behandlingID, err := id.ParseBehandlingID(chi.URLParam(r, "behandlingId"))
	if err != nil {
		return id.SakID{}, id.BehandlingID{}, err
	}
	return sakID, behandlingID, nil
}

// logFailure logs business rejections at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, operasjon string, sakID id.SakID, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"operasjon", operasjon,
		"sak_id", sakID.String(),
		"error", err,
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "tilbakekreving request failed", attrs...)
		return
	}
	h.logger.WarnContext(ctx, "tilbakekreving request rejected", attrs...)
}

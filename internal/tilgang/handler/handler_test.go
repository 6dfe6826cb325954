package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"supstonad/internal/tilgang/service"
	"supstonad/internal/tilgang/store"
	id "supstonad/pkg/domain"
)

func TestDriftEndpoints(t *testing.T) {
	register := store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(service.NewDrift(register, nil, logger), logger).Register(r)

	do := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "/drift/beskyttet-person", `{"fnr":"12345678901","gradering":"STRENGT_FORTROLIG"}`))
	beskyttet, _ := register.ErBeskyttet(context.Background(), id.Fnr("12345678901"))
	assert.True(t, beskyttet)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/drift/beskyttet-person", `{"fnr":"123","gradering":"STRENGT_FORTROLIG"}`))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/drift/beskyttet-person", `{"fnr":"12345678901","gradering":"ukjent"}`))

	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/drift/beskyttet-person/12345678901", ""))
	beskyttet, _ = register.ErBeskyttet(context.Background(), id.Fnr("12345678901"))
	assert.False(t, beskyttet)
}

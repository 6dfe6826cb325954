package request

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supstonad/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	t.Run("generates an id when none is supplied", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
	})

	t.Run("keeps the caller id and correlation id", func(t *testing.T) {
		var reqID, corrID string
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			reqID = GetRequestID(r.Context())
			corrID = requestcontext.CorrelationID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "req-1")
		req.Header.Set(HeaderCorrelationID, "call-1")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "req-1", reqID)
		assert.Equal(t, "call-1", corrID)
	})
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic in http handler")
}

func TestClientIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	assert.Equal(t, "10.0.0.1", ClientIPFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.4:5555"
	assert.Equal(t, "192.168.1.4", ClientIPFromRequest(req))
}

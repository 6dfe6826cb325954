package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "supstonad/pkg/domain"
	"supstonad/pkg/requestcontext"
)

type AuthSuite struct {
	suite.Suite
	validator *HMACValidator
	logger    *slog.Logger
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupTest() {
	s.validator = NewHMACValidator("test-key", "supstonad-test", "supstonad", map[string]id.Rolle{
		"g-saksbehandler": id.RolleSaksbehandler,
		"g-attestant":     id.RolleAttestant,
	})
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *AuthSuite) serve(header string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	RequireAuth(s.validator, s.logger)(next).ServeHTTP(rec, req)
	return rec
}

func (s *AuthSuite) TestValidTokenPopulatesContext() {
	token, err := s.validator.Issue("Z990001", []string{"g-saksbehandler", "unknown", "g-saksbehandler"}, time.Now(), time.Hour)
	s.Require().NoError(err)

	var ident id.NavIdent
	var roller []id.Rolle
	rec := s.serve("Bearer "+token, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ident = requestcontext.NavIdent(r.Context())
		roller = requestcontext.Roller(r.Context())
	}))

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(id.NavIdent("Z990001"), ident)
	s.Equal([]id.Rolle{id.RolleSaksbehandler}, roller)
}

func (s *AuthSuite) TestRejectsBadTokens() {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		s.Fail("next must not be called")
	})

	s.Run("missing header", func() {
		rec := s.serve("", next)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("expired token", func() {
		token, err := s.validator.Issue("Z990001", nil, time.Now().Add(-2*time.Hour), time.Hour)
		s.Require().NoError(err)
		rec := s.serve("Bearer "+token, next)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("wrong signing key", func() {
		other := NewHMACValidator("other-key", "supstonad-test", "supstonad", nil)
		token, err := other.Issue("Z990001", nil, time.Now(), time.Hour)
		s.Require().NoError(err)
		rec := s.serve("Bearer "+token, next)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("malformed NAVident", func() {
		token, err := s.validator.Issue("not-an-ident", nil, time.Now(), time.Hour)
		s.Require().NoError(err)
		rec := s.serve("Bearer "+token, next)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRolle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequireRolle(id.RolleDrift, logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(requestcontext.WithBruker(req.Context(), "Z990001", []id.Rolle{id.RolleSaksbehandler}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(requestcontext.WithBruker(req.Context(), "Z990003", []id.Rolle{id.RolleDrift}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

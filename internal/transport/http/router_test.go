package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundline/internal/auth"
	id "fundline/pkg/domain"
	"fundline/pkg/requestcontext"
)

type echoLender struct{}

func (echoLender) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		lenderID := requestcontext.LenderID(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(lenderID.String()))
	})
}

func newTestRouter() (http.Handler, *auth.JWTService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := auth.NewJWTService("test-signing-key", "fundline", "lender-portal")
	return NewRouter(logger, jwtService, echoLender{}), jwtService
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_V1RequiresAuth(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_V1RejectsBadToken(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_V1PassesLenderToHandlers(t *testing.T) {
	router, jwtService := newTestRouter()
	lenderID := id.NewLenderID()

	token, err := jwtService.GenerateAccessToken(lenderID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, lenderID.String(), w.Body.String())
}

func TestRouter_RequestIDPropagates(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

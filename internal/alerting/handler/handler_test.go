package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundline/internal/alerting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
	"fundline/pkg/requestcontext"
)

type stubService struct {
	checkFn func(ctx context.Context, lenderID id.LenderID) (*alerting.CheckResult, error)
}

func (s *stubService) CheckAll(ctx context.Context, lenderID id.LenderID) (*alerting.CheckResult, error) {
	return s.checkFn(ctx, lenderID)
}

func checkRequest(lenderID id.LenderID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/alerts/check", nil)
	ctx := requestcontext.WithLenderID(req.Context(), lenderID)
	return req.WithContext(ctx)
}

func TestHandleCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lenderID := id.NewLenderID()

	t.Run("reports the run summary", func(t *testing.T) {
		svc := &stubService{
			checkFn: func(_ context.Context, gotID id.LenderID) (*alerting.CheckResult, error) {
				assert.Equal(t, lenderID, gotID)
				return &alerting.CheckResult{RulesEvaluated: 3, EventsEmitted: 2, Suppressed: 1}, nil
			},
		}
		handler := New(svc, logger)

		w := httptest.NewRecorder()
		handler.HandleCheck(w, checkRequest(lenderID))

		require.Equal(t, http.StatusOK, w.Code)
		var resp CheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.RulesEvaluated)
		assert.Equal(t, 2, resp.EventsEmitted)
		assert.Equal(t, 1, resp.Suppressed)
	})

	t.Run("missing authentication returns 401", func(t *testing.T) {
		handler := New(&stubService{}, logger)

		req := httptest.NewRequest(http.MethodPost, "/alerts/check", nil)
		w := httptest.NewRecorder()
		handler.HandleCheck(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("evaluator failure maps to dependency status", func(t *testing.T) {
		svc := &stubService{
			checkFn: func(context.Context, id.LenderID) (*alerting.CheckResult, error) {
				return nil, dErrors.New(dErrors.CodeDependency, "portfolio store unavailable")
			},
		}
		handler := New(svc, logger)

		w := httptest.NewRecorder()
		handler.HandleCheck(w, checkRequest(lenderID))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/investifai/investif/internal/api/middleware"
)

// NewJSONRequest creates a request whose body is body encoded as JSON.
// A nil body sends an empty one.
//
// Example:
//
//	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/chart/tickers",
//	    map[string]string{"ticker": "MSFT"})
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithURLParams attaches chi URL parameters to req, for handlers that read
// them with chi.URLParam().
//
// Example:
//
//	req := testutil.WithURLParams(
//	    httptest.NewRequest(http.MethodDelete, "/api/portfolio/positions/AAPL", nil),
//	    map[string]string{"ticker": "AAPL"},
//	)
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// WithUser marks req as authenticated as userID, as RequireAuth would.
func WithUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

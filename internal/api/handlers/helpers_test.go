package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/investifai/investif/internal/testutil"
)

// newAuthedRequest builds a JSON request carrying userID and the given chi
// URL params. An empty userID leaves the request anonymous.
func newAuthedRequest(t *testing.T, method, path, userID string, body any, params map[string]string) *http.Request {
	t.Helper()
	req := testutil.WithURLParams(testutil.NewJSONRequest(t, method, path, body), params)
	if userID != "" {
		req = testutil.WithUser(req, userID)
	}
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

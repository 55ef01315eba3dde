package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/investifai/investif/internal/api/middleware"
)

func TestValidateTickerMiddleware(t *testing.T) {
	run := func(ticker string) (bool, int) {
		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("ticker", ticker)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		w := httptest.NewRecorder()
		middleware.ValidateTickerMiddleware(next).ServeHTTP(w, req)
		return handlerCalled, w.Code
	}

	t.Run("passes through valid ticker", func(t *testing.T) {
		called, code := run("BRK.B")
		if !called {
			t.Error("Expected next handler to be called")
		}
		if code != http.StatusOK {
			t.Errorf("Expected 200, got %d", code)
		}
	})

	t.Run("returns 400 for invalid ticker", func(t *testing.T) {
		called, code := run("no spaces")
		if called {
			t.Error("Expected next handler NOT to be called")
		}
		if code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})

	t.Run("returns 400 for missing ticker", func(t *testing.T) {
		called, code := run("")
		if called || code != http.StatusBadRequest {
			t.Errorf("Expected 400 without calling next, got %d (called %v)", code, called)
		}
	})
}

type stubAuth map[string]string

func (s stubAuth) Authenticate(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func TestRequireAuth(t *testing.T) {
	auth := stubAuth{"good": "user-1"}
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	mw := middleware.RequireAuth(auth)(next)

	t.Run("accepts bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent || seen != "user-1" {
			t.Errorf("Expected 204 for user-1, got %d for %q", w.Code, seen)
		}
	})

	t.Run("accepts token query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?token=good", nil)
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
	})

	t.Run("rejects missing and invalid tokens", func(t *testing.T) {
		for _, header := range []string{"", "Bearer bad", "Basic good"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 for %q, got %d", header, w.Code)
			}
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	var authenticated bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authenticated = middleware.UserID(r.Context())
	})
	mw := middleware.OptionalAuth(stubAuth{"good": "user-1"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	mw.ServeHTTP(httptest.NewRecorder(), req)
	if authenticated {
		t.Error("Expected anonymous request for bad token")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/x%0Ay", nil)
	middleware.Logger(logger)(next).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("Expected status 418 in log, got %s", out)
	}
	if strings.Contains(out, `x\ny`) {
		t.Errorf("Expected newline stripped from path, got %s", out)
	}
}

func TestLogger_RequestID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	handler := chimw.RequestID(middleware.Logger(logger)(next))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Errorf("Expected %s header to be set", middleware.RequestIDHeader)
	}
}

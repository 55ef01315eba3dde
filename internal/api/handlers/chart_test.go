package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/testutil"
)

func TestChartHandler(t *testing.T) {
	setup := func(t *testing.T) (*ChartHandler, *testutil.Env, string) {
		t.Helper()
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 40, 100)
		env.Prices.Series["MSFT"] = testutil.MakeSeries("MSFT", 40, 300)
		return NewChartHandler(env.Workspaces, env.Chart), env, testutil.CreateUser(t, env.DB).ID
	}

	t.Run("starts with the default ticker", func(t *testing.T) {
		h, _, userID := setup(t)

		w := httptest.NewRecorder()
		h.Chart(w, newAuthedRequest(t, http.MethodGet, "/api/chart", userID, nil, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		view := decode[service.ChartView](t, w)
		if len(view.Selection) != 1 || view.Selection[0].Ticker != "AAPL" {
			t.Errorf("Expected AAPL selected, got %+v", view.Selection)
		}
		if view.Range != chart.DefaultRange {
			t.Errorf("Expected range %s, got %s", chart.DefaultRange, view.Range)
		}
	})

	t.Run("add duplicate is a conflict", func(t *testing.T) {
		h, _, userID := setup(t)

		w := httptest.NewRecorder()
		h.AddTicker(w, newAuthedRequest(t, http.MethodPost, "/api/chart/tickers", userID,
			map[string]string{"ticker": "MSFT"}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if view := decode[service.ChartView](t, w); len(view.Selection) != 2 {
			t.Errorf("Expected 2 tickers, got %d", len(view.Selection))
		}

		w = httptest.NewRecorder()
		h.AddTicker(w, newAuthedRequest(t, http.MethodPost, "/api/chart/tickers", userID,
			map[string]string{"ticker": "MSFT"}, nil))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", w.Code)
		}
	})

	t.Run("failed fetch is reported in the view", func(t *testing.T) {
		h, _, userID := setup(t)

		w := httptest.NewRecorder()
		h.AddTicker(w, newAuthedRequest(t, http.MethodPost, "/api/chart/tickers", userID,
			map[string]string{"ticker": "ZZZZ"}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		view := decode[service.ChartView](t, w)
		if view.Error != "Stock not found: ZZZZ" {
			t.Errorf("Expected stock not found error, got %q", view.Error)
		}
		if len(view.Selection) != 1 {
			t.Errorf("Expected ZZZZ to be dropped, got %+v", view.Selection)
		}
	})

	t.Run("malformed ticker is rejected", func(t *testing.T) {
		h, _, userID := setup(t)

		w := httptest.NewRecorder()
		h.AddTicker(w, newAuthedRequest(t, http.MethodPost, "/api/chart/tickers", userID,
			map[string]string{"ticker": "not a ticker"}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("toggle and remove", func(t *testing.T) {
		h, _, userID := setup(t)
		params := map[string]string{"ticker": "AAPL"}

		w := httptest.NewRecorder()
		h.ToggleTicker(w, newAuthedRequest(t, http.MethodPost, "/api/chart/tickers/AAPL/toggle", userID, nil, params))
		if view := decode[service.ChartView](t, w); view.Selection[0].Active {
			t.Error("Expected AAPL to be hidden")
		}

		w = httptest.NewRecorder()
		h.RemoveTicker(w, newAuthedRequest(t, http.MethodDelete, "/api/chart/tickers/AAPL", userID, nil, params))
		if view := decode[service.ChartView](t, w); len(view.Selection) != 0 {
			t.Errorf("Expected empty selection, got %+v", view.Selection)
		}

		w = httptest.NewRecorder()
		h.RemoveTicker(w, newAuthedRequest(t, http.MethodDelete, "/api/chart/tickers/AAPL", userID, nil, params))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("set range", func(t *testing.T) {
		h, _, userID := setup(t)

		w := httptest.NewRecorder()
		h.SetRange(w, newAuthedRequest(t, http.MethodPut, "/api/chart/range", userID,
			map[string]string{"range": "1MO"}, nil))
		if view := decode[service.ChartView](t, w); view.Range != chart.Range1M {
			t.Errorf("Expected 1mo, got %s", view.Range)
		}

		w = httptest.NewRecorder()
		h.SetRange(w, newAuthedRequest(t, http.MethodPut, "/api/chart/range", userID,
			map[string]string{"range": "forever"}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

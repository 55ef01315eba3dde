package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/testutil"
)

func newPortfolioHandler(env *testutil.Env) *PortfolioHandler {
	return NewPortfolioHandler(env.Workspaces, env.Selector, env.Chart, env.Delta, env.Summary)
}

func TestPortfolioHandler_AddPosition(t *testing.T) {
	t.Run("open select save", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)

		w := httptest.NewRecorder()
		h.OpenForm(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/form/open", user.ID, nil, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		h.SelectTicker(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/form/select", user.ID,
			map[string]string{"ticker": "MSFT"}, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		form := decode[service.PurchaseForm](t, w)
		if form.State != service.FormVisible || form.Ticker != "MSFT" {
			t.Fatalf("Expected visible form for MSFT, got %+v", form)
		}

		w = httptest.NewRecorder()
		h.SaveForm(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/form/save", user.ID,
			map[string]any{"quantity": 3, "price": 410.5}, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		p := decode[model.Position](t, w)
		if p.Ticker != "MSFT" || p.Quantity != 3 || p.Price != 410.5 || !p.IsActive {
			t.Errorf("Unexpected position: %+v", p)
		}

		w = httptest.NewRecorder()
		h.Positions(w, newAuthedRequest(t, http.MethodGet, "/api/portfolio/positions", user.ID, nil, nil))
		positions := decode[[]model.Position](t, w)
		if len(positions) != 1 {
			t.Errorf("Expected 1 position, got %d", len(positions))
		}
	})

	t.Run("save on a closed form is a conflict", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)

		w := httptest.NewRecorder()
		h.SaveForm(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/form/save", user.ID,
			map[string]any{"quantity": 1, "price": 10}, nil))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)

		w := httptest.NewRecorder()
		h.SaveForm(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/form/save", user.ID,
			map[string]any{"quantity": 0, "price": 10}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)

		w := httptest.NewRecorder()
		h.SelectTicker(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/form/select", user.ID,
			map[string]string{"symbol": "MSFT"}, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_Positions(t *testing.T) {
	t.Run("remove unknown ticker is not found", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)

		w := httptest.NewRecorder()
		h.RemovePosition(w, newAuthedRequest(t, http.MethodDelete, "/api/portfolio/positions/ZZZZ", user.ID,
			nil, map[string]string{"ticker": "ZZZZ"}))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("toggle reprice remove", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").WithPrice(150).Build(t, env.DB)
		params := map[string]string{"ticker": "AAPL"}

		w := httptest.NewRecorder()
		h.TogglePosition(w, newAuthedRequest(t, http.MethodPost, "/api/portfolio/positions/AAPL/toggle", user.ID, nil, params))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if p := decode[model.Position](t, w); p.IsActive {
			t.Error("Expected position to be inactive after toggle")
		}

		w = httptest.NewRecorder()
		h.RepricePosition(w, newAuthedRequest(t, http.MethodPut, "/api/portfolio/positions/AAPL/price", user.ID,
			map[string]float64{"price": -1}, params))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for negative price, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		h.RepricePosition(w, newAuthedRequest(t, http.MethodPut, "/api/portfolio/positions/AAPL/price", user.ID,
			map[string]float64{"price": 175}, params))
		if p := decode[model.Position](t, w); p.Price != 175 {
			t.Errorf("Expected price 175, got %v", p.Price)
		}

		w = httptest.NewRecorder()
		h.RemovePosition(w, newAuthedRequest(t, http.MethodDelete, "/api/portfolio/positions/AAPL", user.ID, nil, params))
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_View(t *testing.T) {
	t.Run("returns positions deltas and chart", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").WithQuantity(2).WithPrice(100).Build(t, env.DB)

		w := httptest.NewRecorder()
		h.View(w, newAuthedRequest(t, http.MethodGet, "/api/portfolio?range=5d", user.ID, nil, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		view := decode[PortfolioViewResponse](t, w)

		if len(view.Deltas) != 1 || view.Deltas[0].CurrentPrice != 109 {
			t.Errorf("Expected one delta at 109, got %+v", view.Deltas)
		}
		if view.Chart.Payload == nil || len(view.Chart.Payload.Labels) != 5 {
			t.Errorf("Expected 5 labels for 5d, got %+v", view.Chart.Payload)
		}
		if view.Summary != nil {
			t.Errorf("Expected no summary unless requested, got %+v", view.Summary)
		}
	})

	t.Run("includes the summary when requested", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Prices.Series["AAPL"] = testutil.MakeSeries("AAPL", 10, 100)
		env.Summarizer.Answer = "**AAPL** rallied."
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").Build(t, env.DB)

		w := httptest.NewRecorder()
		h.View(w, newAuthedRequest(t, http.MethodGet, "/api/portfolio/view?summary=1", user.ID, nil, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		view := decode[PortfolioViewResponse](t, w)
		if view.Summary == nil || view.Summary.Markdown != "**AAPL** rallied." {
			t.Errorf("Expected summary in view, got %+v", view.Summary)
		}
		if len(view.Positions) != 1 {
			t.Errorf("Expected 1 position, got %d", len(view.Positions))
		}
	})

	t.Run("rejects unknown range", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)

		w := httptest.NewRecorder()
		h.Chart(w, newAuthedRequest(t, http.MethodGet, "/api/portfolio/chart?range=7w", user.ID, nil, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		h := newPortfolioHandler(env)

		w := httptest.NewRecorder()
		h.Positions(w, httptest.NewRequest(http.MethodGet, "/api/portfolio/positions", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		resp := decode[response.ErrorResponse](t, w)
		if resp.Error == "" {
			t.Error("Expected an error message")
		}
	})
}

func TestPortfolioHandler_Summary(t *testing.T) {
	t.Run("summarizes tracked tickers", func(t *testing.T) {
		env := testutil.NewTestEnv(t)
		env.Summarizer.Answer = "**AAPL** rallied."
		h := newPortfolioHandler(env)
		user := testutil.CreateUser(t, env.DB)
		testutil.NewPosition(user.ID).WithTicker("AAPL").Build(t, env.DB)

		w := httptest.NewRecorder()
		h.Summary(w, newAuthedRequest(t, http.MethodGet, "/api/portfolio/summary", user.ID, nil, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		s := decode[service.Summary](t, w)
		if s.Markdown != "**AAPL** rallied." {
			t.Errorf("Expected markdown to be passed through, got %q", s.Markdown)
		}
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/investifai/investif/internal/api/request"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/validation"
)

// PortfolioHandler serves the Portfolio View: the stock selector, its
// purchase form, the portfolio chart, price deltas and the news summary.
type PortfolioHandler struct {
	workspaces *service.WorkspaceManager
	selector   *service.SelectorService
	charts     *service.ChartService
	deltas     *service.DeltaService
	summary    *service.SummaryService
	now        func() time.Time
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(
	workspaces *service.WorkspaceManager,
	selector *service.SelectorService,
	charts *service.ChartService,
	deltas *service.DeltaService,
	summary *service.SummaryService,
) *PortfolioHandler {
	return &PortfolioHandler{
		workspaces: workspaces,
		selector:   selector,
		charts:     charts,
		deltas:     deltas,
		summary:    summary,
		now:        time.Now,
	}
}

// PortfolioViewResponse is the whole Portfolio View in one response.
type PortfolioViewResponse struct {
	Positions []model.Position     `json:"positions"`
	Form      service.PurchaseForm `json:"form"`
	Deltas    []model.PriceDelta   `json:"deltas"`
	Chart     service.ChartView    `json:"chart"`
	Summary   *service.Summary     `json:"summary,omitempty"`
}

// View returns the positions, purchase form, deltas and chart together.
// The news summary is slow, so it is only included when asked for.
//
// Endpoint: GET /api/portfolio/view
// Query: range (optional, default 6mo), summary (optional, "1" or "true")
// Response: 200 OK with PortfolioViewResponse
// Error: 400 Bad Request if range is unknown
func (h *PortfolioHandler) View(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}

	resp := PortfolioViewResponse{
		Positions: h.selector.Positions(ws),
		Form:      h.selector.Form(ws),
		Deltas:    h.deltas.Deltas(r.Context(), ws),
		Chart:     h.charts.PortfolioPayload(r.Context(), ws, rng),
	}
	if wantSummary(r) {
		summary := h.summary.SummarizeWorkspace(r.Context(), ws)
		resp.Summary = &summary
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

func wantSummary(r *http.Request) bool {
	switch r.URL.Query().Get("summary") {
	case "1", "true":
		return true
	}
	return false
}

// Positions returns the cached position list.
//
// Endpoint: GET /api/portfolio/positions
// Response: 200 OK with []model.Position
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.selector.Positions(ws))
}

// RemovePosition deletes a position.
//
// Endpoint: DELETE /api/portfolio/positions/{ticker}
// Response: 204 No Content
// Error: 404 Not Found if the ticker is not tracked
func (h *PortfolioHandler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	if err := h.selector.Remove(r.Context(), ws, chi.URLParam(r, "ticker")); err != nil {
		respondServiceError(w, err, "failed to remove position")
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// TogglePosition shows or hides a position on the portfolio chart.
//
// Endpoint: POST /api/portfolio/positions/{ticker}/toggle
// Response: 200 OK with model.Position
// Error: 404 Not Found if the ticker is not tracked
func (h *PortfolioHandler) TogglePosition(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	p, err := h.selector.Toggle(r.Context(), ws, chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err, "failed to toggle position")
		return
	}
	response.RespondJSON(w, http.StatusOK, p)
}

// RepricePosition changes a position's purchase price.
//
// Endpoint: PUT /api/portfolio/positions/{ticker}/price
// Request Body: RepriceRequest (price)
// Response: 200 OK with model.Position
// Error: 400 Bad Request if the price is not positive
// Error: 404 Not Found if the ticker is not tracked
func (h *PortfolioHandler) RepricePosition(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	req, err := parseJSON[request.RepriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateReprice(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	p, err := h.selector.Reprice(r.Context(), ws, chi.URLParam(r, "ticker"), req.Price)
	if err != nil {
		respondServiceError(w, err, "failed to reprice position")
		return
	}
	response.RespondJSON(w, http.StatusOK, p)
}

// Form returns the purchase form state.
//
// Endpoint: GET /api/portfolio/form
// Response: 200 OK with service.PurchaseForm
func (h *PortfolioHandler) Form(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.selector.Form(ws))
}

// OpenForm starts adding a position.
//
// Endpoint: POST /api/portfolio/form/open
// Response: 200 OK with service.PurchaseForm
// Error: 409 Conflict if the form is already open
func (h *PortfolioHandler) OpenForm(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	form, err := h.selector.OpenForm(ws)
	if err != nil {
		respondServiceError(w, err, "failed to open form")
		return
	}
	response.RespondJSON(w, http.StatusOK, form)
}

// SelectTicker picks the ticker of the new position.
//
// Endpoint: POST /api/portfolio/form/select
// Request Body: SelectTickerRequest (ticker)
// Response: 200 OK with service.PurchaseForm
// Error: 404 Not Found if the ticker is not in the symbol universe
// Error: 409 Conflict if the form is not selecting
func (h *PortfolioHandler) SelectTicker(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	req, err := parseJSON[request.SelectTickerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateSelectTicker(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	form, err := h.selector.SelectTicker(r.Context(), ws, req.Ticker)
	if err != nil {
		respondServiceError(w, err, "failed to select ticker")
		return
	}
	response.RespondJSON(w, http.StatusOK, form)
}

// CancelForm closes the purchase form without saving.
//
// Endpoint: POST /api/portfolio/form/cancel
// Response: 200 OK with service.PurchaseForm
// Error: 409 Conflict if the form is closed
func (h *PortfolioHandler) CancelForm(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	form, err := h.selector.CancelForm(ws)
	if err != nil {
		respondServiceError(w, err, "failed to cancel form")
		return
	}
	response.RespondJSON(w, http.StatusOK, form)
}

// SaveForm submits the purchase form.
//
// Endpoint: POST /api/portfolio/form/save
// Request Body: PurchaseRequest (quantity, price and/or date)
// Response: 201 Created with model.Position
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the ticker is already tracked or the form is not ready
// Error: 502 Bad Gateway if the historical price cannot be fetched
func (h *PortfolioHandler) SaveForm(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	req, err := parseJSON[request.PurchaseRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidatePurchase(req, h.now()); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	in := service.PurchaseInput{Quantity: req.Quantity, Price: req.Price}
	if req.Date != nil {
		// Already checked by ValidatePurchase.
		d, _ := validation.ParseDate(*req.Date)
		in.Date = &d
	}

	p, err := h.selector.Save(r.Context(), ws, in)
	if err != nil {
		respondServiceError(w, err, "failed to save position")
		return
	}
	response.RespondJSON(w, http.StatusCreated, p)
}

// Deltas compares purchase prices with the latest prices.
//
// Endpoint: GET /api/portfolio/delta
// Response: 200 OK with []model.PriceDelta
func (h *PortfolioHandler) Deltas(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.deltas.Deltas(r.Context(), ws))
}

// Chart returns the portfolio chart.
//
// Endpoint: GET /api/portfolio/chart
// Query: range (optional, default 6mo)
// Response: 200 OK with service.ChartView
// Error: 400 Bad Request if range is unknown
func (h *PortfolioHandler) Chart(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.charts.PortfolioPayload(r.Context(), ws, rng))
}

// Summary asks for news about every tracked ticker.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with service.Summary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.summary.SummarizeWorkspace(r.Context(), ws))
}

// parseRange reads the optional range query parameter.
func parseRange(w http.ResponseWriter, r *http.Request) (chart.TimeRange, bool) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return chart.DefaultRange, true
	}
	rng, err := chart.ParseTimeRange(raw)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid time range", err.Error())
		return "", false
	}
	return rng, true
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/investifai/investif/internal/api/request"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/validation"
)

// ChartHandler serves the Stock Chart Explorer.
type ChartHandler struct {
	workspaces *service.WorkspaceManager
	charts     *service.ChartService
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(workspaces *service.WorkspaceManager, charts *service.ChartService) *ChartHandler {
	return &ChartHandler{workspaces: workspaces, charts: charts}
}

// Chart fetches any missing series and returns the windowed payload.
//
// Endpoint: GET /api/chart
// Response: 200 OK with service.ChartView
func (h *ChartHandler) Chart(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.charts.Payload(r.Context(), ws))
}

// State returns the selection and range without fetching.
//
// Endpoint: GET /api/chart/state
// Response: 200 OK with service.ChartView
func (h *ChartHandler) State(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.charts.State(ws))
}

// AddTicker appends a ticker to the selection and fetches its series. A
// failed fetch is reported in the view's error, not as an HTTP error.
//
// Endpoint: POST /api/chart/tickers
// Request Body: AddTickerRequest (ticker)
// Response: 200 OK with service.ChartView
// Error: 400 Bad Request if the ticker is malformed
// Error: 409 Conflict if the ticker is already selected
func (h *ChartHandler) AddTicker(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	req, err := parseJSON[request.AddTickerRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateTicker(req.Ticker); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	view, err := h.charts.Add(r.Context(), ws, req.Ticker)
	if err != nil {
		respondServiceError(w, err, "failed to add ticker")
		return
	}
	response.RespondJSON(w, http.StatusOK, view)
}

// RemoveTicker drops a ticker from the selection.
//
// Endpoint: DELETE /api/chart/tickers/{ticker}
// Response: 200 OK with service.ChartView
// Error: 404 Not Found if the ticker is not selected
func (h *ChartHandler) RemoveTicker(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	view, err := h.charts.Remove(ws, chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err, "failed to remove ticker")
		return
	}
	response.RespondJSON(w, http.StatusOK, view)
}

// ToggleTicker shows or hides a selected ticker.
//
// Endpoint: POST /api/chart/tickers/{ticker}/toggle
// Response: 200 OK with service.ChartView
// Error: 404 Not Found if the ticker is not selected
func (h *ChartHandler) ToggleTicker(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	view, err := h.charts.Toggle(ws, chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err, "failed to toggle ticker")
		return
	}
	response.RespondJSON(w, http.StatusOK, view)
}

// SetRange changes the display window.
//
// Endpoint: PUT /api/chart/range
// Request Body: SetRangeRequest (range)
// Response: 200 OK with service.ChartView
// Error: 400 Bad Request if the range is unknown
func (h *ChartHandler) SetRange(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	req, err := parseJSON[request.SetRangeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	rng, err := chart.ParseTimeRange(req.Range)
	if err != nil {
		respondServiceError(w, err, "failed to set range")
		return
	}
	response.RespondJSON(w, http.StatusOK, h.charts.SetRange(ws, rng))
}

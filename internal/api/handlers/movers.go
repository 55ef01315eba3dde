package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/service"
)

// MoversHandler serves the Top-Movers Explorer.
type MoversHandler struct {
	workspaces *service.WorkspaceManager
	movers     *service.MoversService
}

// NewMoversHandler creates a new MoversHandler
func NewMoversHandler(workspaces *service.WorkspaceManager, movers *service.MoversService) *MoversHandler {
	return &MoversHandler{workspaces: workspaces, movers: movers}
}

// Movers returns the ranked top movers.
//
// Endpoint: GET /api/movers
// Response: 200 OK with []model.Mover
// Error: 502 Bad Gateway if the rankings cannot be loaded
func (h *MoversHandler) Movers(w http.ResponseWriter, r *http.Request) {
	movers, err := h.movers.Movers(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to retrieve movers")
		return
	}
	response.RespondJSON(w, http.StatusOK, movers)
}

// CompanyNameResponse names the company behind a ticker.
type CompanyNameResponse struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// CompanyName resolves a ticker to its company name.
//
// Endpoint: GET /api/movers/company/{ticker}
// Response: 200 OK with CompanyNameResponse
// Error: 502 Bad Gateway if the lookup fails
func (h *MoversHandler) CompanyName(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	name, err := h.movers.CompanyName(r.Context(), ticker)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve company name")
		return
	}
	response.RespondJSON(w, http.StatusOK, CompanyNameResponse{Ticker: ticker, Name: name})
}

// Chart returns the comparative chart of the caller's selection.
//
// Endpoint: GET /api/movers/chart
// Response: 200 OK with model.MoversChart
func (h *MoversHandler) Chart(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.movers.Chart(ws))
}

// Toggle selects or deselects a mover on the comparative chart.
//
// Endpoint: POST /api/movers/chart/{ticker}/toggle
// Response: 200 OK with model.MoversChart
func (h *MoversHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.movers.Toggle(r.Context(), ws, chi.URLParam(r, "ticker")))
}

// Clear empties the comparative chart.
//
// Endpoint: DELETE /api/movers/chart
// Response: 200 OK with model.MoversChart
func (h *MoversHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.movers.Clear(ws))
}

package handlers

import (
	"net/http"

	"github.com/investifai/investif/internal/api/middleware"
	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/nav"
	"github.com/investifai/investif/internal/service"
)

// NavHandler serves the route table and the mobile menu state.
type NavHandler struct {
	workspaces *service.WorkspaceManager
}

// NewNavHandler creates a new NavHandler
func NewNavHandler(workspaces *service.WorkspaceManager) *NavHandler {
	return &NavHandler{workspaces: workspaces}
}

// NavResponse is the navbar as seen by the caller.
type NavResponse struct {
	Routes        []nav.Route     `json:"routes"`
	Authenticated bool            `json:"authenticated"`
	Resolution    *nav.Resolution `json:"resolution,omitempty"`
	Menu          *nav.Menu       `json:"menu,omitempty"`
}

// Nav returns the route table, resolving ?path= when given. Following a
// link closes the caller's mobile menu.
//
// Endpoint: GET /api/nav
// Query: path (optional)
// Response: 200 OK with NavResponse
func (h *NavHandler) Nav(w http.ResponseWriter, r *http.Request) {
	_, authenticated := middleware.UserID(r.Context())
	resp := NavResponse{Routes: nav.Routes(), Authenticated: authenticated}

	path := r.URL.Query().Get("path")
	if authenticated {
		ws := workspace(w, r, h.workspaces)
		if ws == nil {
			return
		}
		if path != "" {
			res := ws.Navigate(path)
			resp.Resolution = &res
		}
		menu := ws.MenuState()
		resp.Menu = &menu
	} else if path != "" {
		res := nav.Resolve(path, false)
		resp.Resolution = &res
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// ToggleMenu opens or closes the mobile menu.
//
// Endpoint: POST /api/nav/menu/toggle
// Response: 200 OK with nav.Menu
func (h *NavHandler) ToggleMenu(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}
	response.RespondJSON(w, http.StatusOK, ws.ToggleMenu())
}

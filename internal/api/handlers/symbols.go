package handlers

import (
	"net/http"
	"strconv"

	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/symbols"
)

// SymbolHandler serves the symbol search box.
type SymbolHandler struct {
	workspaces *service.WorkspaceManager
}

// NewSymbolHandler creates a new SymbolHandler
func NewSymbolHandler(workspaces *service.WorkspaceManager) *SymbolHandler {
	return &SymbolHandler{workspaces: workspaces}
}

// Search filters the symbol universe by q. Queries are debounced per user
// unless immediate=true; a query overtaken by a newer one answers 409.
//
// Endpoint: GET /api/symbols
// Query: q, immediate (optional)
// Response: 200 OK with []symbols.Symbol
// Error: 409 Conflict if a newer search superseded this one
// Error: 502 Bad Gateway if the symbol universe cannot be loaded
func (h *SymbolHandler) Search(w http.ResponseWriter, r *http.Request) {
	ws := workspace(w, r, h.workspaces)
	if ws == nil {
		return
	}

	q := r.URL.Query().Get("q")
	immediate, _ := strconv.ParseBool(r.URL.Query().Get("immediate"))

	var (
		results []symbols.Symbol
		err     error
	)
	if immediate {
		results, err = ws.Search().Search(r.Context(), q)
	} else {
		results, err = ws.Search().Debounced(r.Context(), q)
	}
	if err != nil {
		respondServiceError(w, err, "failed to search symbols")
		return
	}
	response.RespondJSON(w, http.StatusOK, results)
}

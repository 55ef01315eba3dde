// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/investifai/investif/internal/api/response"
	"github.com/investifai/investif/internal/validation"
)

// ValidateTickerMiddleware validates that the ticker URL parameter is present and well formed.
// Returns 400 Bad Request if the ticker is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/positions/{ticker}", func(r chi.Router) {
//	    r.Use(middleware.ValidateTickerMiddleware)
//	    r.Delete("/", handler.RemovePosition)
//	})
func ValidateTickerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticker := chi.URLParam(r, "ticker")

		if ticker == "" {
			response.RespondError(w, http.StatusBadRequest, "ticker is required", "")
			return
		}

		if err := validation.ValidateTicker(ticker); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ticker format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

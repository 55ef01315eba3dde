package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS allows the browser client at allowedOrigins to call the API with
// a bearer token. The request ID is exposed for error reports.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         600,
	})
}

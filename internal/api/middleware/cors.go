package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS allows browser clients from the given origins to call the API.
// The principal header must be listed for preflight requests to pass.
func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", PrincipalHeader, RequestIDHeader},
		ExposedHeaders: []string{TraceIDHeader},
		MaxAge:         300,
	})
}

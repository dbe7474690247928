package gatedchat

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsMiddleware sets the CORS headers and answers every OPTIONS request
// with 204 No Content before it reaches the app key check.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	setHeaders := cors.Handler(cors.Options{
		AllowedOrigins:     allowedOrigins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Accept", "Authorization", "Content-Type", AppKeyHeader, UserIDHeader},
		OptionsPassthrough: true,
	})

	return func(next http.Handler) http.Handler {
		return setHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

package http

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// CORSMiddleware allows the site-builder frontend to call the API cross
// origin. Patterns may carry a leading wildcard ("https://*.framer.app").
func CORSMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(patterns []string, origin string) bool {
	for _, p := range patterns {
		if p == origin {
			return true
		}
		if prefix, suffix, ok := strings.Cut(p, "*"); ok {
			if strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
				return true
			}
		}
	}
	return false
}

// APIKeyMiddleware checks the shared-secret bearer credential before any
// pricing runs. An empty key disables the check.
func APIKeyMiddleware(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if apiKey != "" {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token != apiKey {
				writeError(w, "accès refusé", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RecoverMiddleware turns an unexpected panic into a generic 500 without
// leaking internals to the caller.
func RecoverMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panique lors du traitement de la requête",
					zap.Any("panic", rec),
					zap.String("chemin", r.URL.Path),
				)
				writeError(w, "erreur interne", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

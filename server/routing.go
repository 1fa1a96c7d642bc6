package server

import (
	"net/http"
	"time"

	"github.com/teranos/larder/logger"
)

// requestIDHeader carries the caller's request id, or the one assigned here.
const requestIDHeader = "X-Request-ID"

// setupHTTPRoutes configures all HTTP handlers
func (s *LarderServer) setupHTTPRoutes() {
	handle := func(pattern string, h http.HandlerFunc) {
		s.mux.HandleFunc(pattern, s.corsMiddleware(s.logRequest(h)))
	}

	handle("/health", s.HandleHealth)

	handle("/api/quantity/parse", s.HandleQuantityParse)
	handle("/api/quantity/format", s.HandleQuantityFormat)
	handle("/api/icon", s.HandleIcon)

	handle("/api/ingredients", s.HandleIngredients)
	handle("/api/ingredients/suggest", s.HandleSuggest)
	handle("/api/ingredients/{id}", s.HandleIngredient)

	handle("/ws/autocomplete", s.HandleAutocompleteWebSocket)
}

// corsMiddleware answers preflight requests and echoes allowed origins
func (s *LarderServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// If origin is present and allowed by config, set CORS headers
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// logRequest tags the response with a request id and logs the handler's
// duration at debug level.
func (s *LarderServer) logRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newSessionID()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next(w, r)
		s.logger.Debugw("HTTP request",
			logger.FieldRequestID, id,
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}
}

// Package api exposes the palate engine over HTTP: signal intake, profile
// reads, and the persona catalog. The UI layer is the only intended caller.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// #region router

// NewRouter wires the HTTP surface.
func NewRouter(h *Handlers, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users/{userID}/signals", h.RecordSignal)
		r.Get("/users/{userID}/profile", h.GetProfile)
		r.Get("/personas", h.ListPersonas)
		r.Get("/personas/{personaID}", h.GetPersona)
	})

	return r
}

// #endregion router

// #region middleware

const requestIDHeader = "X-Request-ID"

// requestID assigns a request id when the caller did not send one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one structured line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", ww.Header().Get(requestIDHeader)).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

// #endregion middleware

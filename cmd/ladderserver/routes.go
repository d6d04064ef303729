package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// newRouter configures the HTTP routes for the preview/status service.
func newRouter(s *serverState) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler)
	r.Handle("/metrics", s.collector.Handler())
	r.Get("/chains", s.listChainsHandler)
	r.Get("/chains/{chainID}/pools/{pool}", s.poolStateHandler)
	r.Post("/plan", s.planHandler)

	return r
}

// requestLogger mirrors the teacher's RequestLogger middleware shape,
// logging method/path/status/duration through the service's own logger
// instead of a package-level default.
func requestLogger(s *serverState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			s.logger.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}

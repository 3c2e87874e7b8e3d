package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
		s.metrics.Middleware,
	)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.attribution)

		r.Get("/robots.txt", s.handleRobots)
		r.Get("/sitemap.xml", s.handleSitemap)
		r.Get("/og", s.handleOG)

		r.Route("/api", func(r chi.Router) {
			r.Get("/updates", s.handleUpdates)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Compress(5))
				r.Get("/esa-snapshot", s.handleESA)
				r.Get("/seo-snapshot", s.handleSEO)
				r.Get("/content-coverage", s.handleContent)
				r.Get("/snapshots", s.handleHistory)
				r.Get("/snapshots/{id}", s.handleArchived)
				r.Get("/attribution", s.handleAttribution)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok\n"))
}

// requestLogger logs each request through slog at debug level, errors at warn.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

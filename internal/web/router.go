package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/ffvb-results/internal/calendar"
	"github.com/pfrederiksen/ffvb-results/internal/extract"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"github.com/unrolled/render"
)

func getRouter(ext *extract.Extractor, gen *calendar.Generator, render *render.Render, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(allowOrigin(opts.AllowOrigin))

	// Every handler fetches a page upstream; the timeout cancels that fetch.
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/competitions", competitionsHandler(ext, render))
	r.Get("/regions", regionsHandler(ext, render))
	r.Get("/departments", departmentsHandler(ext, render))
	r.Get("/matches", matchesHandler(ext, render))
	r.Get("/ranking", rankingHandler(ext, render))
	r.Get("/calendar", calendarHandler(ext, gen, render))
	r.Get("/metrics", metricsHandler(render))

	return r
}

// allowOrigin sets the CORS origin header on every response
func allowOrigin(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each request as a structured line and records its timing
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		logger.IncrCounter("http.requests")
		logger.RecordTiming("http.request", elapsed)
		if ww.Status() >= http.StatusInternalServerError {
			logger.IncrCounter("http.errors")
		}
		fields := logger.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   elapsed.String(),
		}
		if ww.Status() >= http.StatusBadRequest {
			logger.Warn("HTTP request failed", fields)
			return
		}
		logger.Info("HTTP request", fields)
	})
}

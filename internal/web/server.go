// Package web serves the extractor over a read-only JSON HTTP API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pfrederiksen/ffvb-results/internal/calendar"
	"github.com/pfrederiksen/ffvb-results/internal/extract"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"github.com/unrolled/render"
)

// ShutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled
const ShutdownTimeout = 10 * time.Second

type Server struct {
	server *http.Server
}

// Options configures a Server
type Options struct {
	Port        int
	AllowOrigin string
	// RequestTimeout bounds each request, page fetch included
	RequestTimeout time.Duration
}

func NewServer(opts Options, ext *extract.Extractor, gen *calendar.Generator) (*Server, error) {
	if ext == nil {
		return nil, errors.New("web: nil extractor")
	}
	if gen == nil {
		return nil, errors.New("web: nil calendar generator")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	router := getRouter(ext, gen, newRender(), opts)

	s := &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	return s, nil
}

// Handler returns the server's router
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Web server listening", logger.Fields{"addr": ln.Addr().String()})
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	logger.Info("Web server shutting down", nil)
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func newRender() *render.Render {
	return render.New(render.Options{
		UnEscapeHTML: true,
	})
}

// Package server exposes a renderer over HTTP.
//
//	POST /v1/render       {"tex": "...", "display": true}  -> JSON with the markup
//	GET  /v1/render.svg   ?tex=...&display=false          -> image/svg+xml
//	GET  /healthz
//
// All renders go through one renderer and are serialized.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wippyai/texsvg"
	"github.com/wippyai/texsvg/runtime"
)

// DefaultMaxTeXBytes bounds the TeX accepted per request.
const DefaultMaxTeXBytes = 64 << 10

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithAllowedOrigins enables CORS for the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithMaxTeXBytes bounds the TeX size per request.
func WithMaxTeXBytes(n int) Option {
	return func(s *Server) { s.maxTeX = n }
}

// Server serves render requests from a single renderer.
type Server struct {
	mu       sync.Mutex
	renderer texsvg.Renderer
	router   *gin.Engine
	log      *zap.Logger
	origins  []string
	maxTeX   int
}

// New builds the HTTP handler around r. The server serializes every call
// to r, so r need not be safe for concurrent use.
func New(r texsvg.Renderer, opts ...Option) *Server {
	s := &Server{renderer: r, maxTeX: DefaultMaxTeXBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = Logger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(s.log))
	if len(s.origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  s.origins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthz", s.health)
	v1 := router.Group("/v1")
	{
		v1.POST("/render", s.renderJSON)
		v1.GET("/render.svg", s.renderSVG)
	}

	s.router = router
	return s
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) render(tex string, mode runtime.Mode) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Render(tex, mode)
}

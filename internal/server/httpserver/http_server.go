// Package httpserver wires the folio HTTP surface: the generated site, the
// API routes, the health check and Prometheus metrics.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/server/handlers"
	smw "git.home.luguber.info/inful/folio/internal/server/middleware"
)

// Options carries the collaborators of a Server. Nil API handlers leave
// their routes unregistered.
type Options struct {
	// SiteDir is the generated output directory being served.
	SiteDir string

	Subscribe *handlers.SubscribeHandlers
	Chat      *handlers.ChatHandlers
	Status    handlers.BuildStatus

	// Registry, when set, is exposed on the configured metrics path.
	Registry *prom.Registry
	Recorder metrics.Recorder
}

// Server serves the site and its API on one listener.
type Server struct {
	cfg          config.ServerConfig
	opts         Options
	errorAdapter *ferrors.HTTPErrorAdapter
	httpServer   *http.Server
	addr         net.Addr

	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg config.ServerConfig, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Status)
	s.mchain = smw.Chain(slog.Default(), s.errorAdapter, opts.Recorder)
	return s
}

// Handler returns the complete routed handler, middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck)
	if s.opts.Subscribe != nil {
		mux.HandleFunc("/api/subscribe", s.opts.Subscribe.HandleSubscribe)
	}
	if s.opts.Chat != nil {
		mux.HandleFunc("/api/chat", s.opts.Chat.HandleChat)
	}
	if s.opts.Registry != nil {
		mux.Handle(s.cfg.MetricsPath, metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/api/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorAdapter.WriteErrorResponse(w, r, ferrors.NotFoundError("no such endpoint").WithContext("path", r.URL.Path).Build())
	}))
	mux.Handle("/", addCacheControlHeaders(newSiteHandler(s.opts.SiteDir)))
	return s.mchain(mux)
}

// Start binds the listener and serves in the background. Binding happens
// before Start returns so that port conflicts surface immediately.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "http startup failed").
			WithContext("address", addr).Build()
	}
	s.addr = ln.Addr()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", logfields.Error(err))
		}
	}()

	slog.Info("HTTP server started",
		slog.String("address", s.addr.String()),
		logfields.Path(s.opts.SiteDir))
	return nil
}

// Addr is the bound address, nil before Start.
func (s *Server) Addr() net.Addr { return s.addr }

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}

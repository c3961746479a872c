package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	nethttputil "net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/getmockd/reqguard/pkg/config"
	"github.com/getmockd/reqguard/pkg/httputil"
	"github.com/getmockd/reqguard/pkg/logging"
	"github.com/getmockd/reqguard/pkg/metrics"
	"github.com/getmockd/reqguard/pkg/validation"
)

// HealthPath answers liveness probes without validation.
const HealthPath = "/healthz"

// Server is the validating gateway: every request is checked against the
// engine and, when valid, forwarded upstream or answered with 204.
type Server struct {
	cfg     *config.Config
	engine  *validation.Engine
	logger  *slog.Logger
	metrics *metrics.Validation
	handler http.Handler

	mu   sync.Mutex
	srv  *http.Server
	addr net.Addr
	once sync.Once
}

// New builds the gateway router. cfg must already be validated.
func New(cfg *config.Config, engine *validation.Engine, logger *slog.Logger) (*Server, error) {
	if cfg == nil || engine == nil {
		return nil, errors.New("server: config and engine are required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{cfg: cfg, engine: engine, logger: logger, metrics: metrics.NewValidation()}
	_ = s.metrics.RoutesLoaded.Set(float64(len(engine.Routes())))

	next, err := s.upstreamHandler()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(HealthPath, s.handleHealth)
	if cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, s.metrics.Registry.Handler())
	}
	r.With(engine.Middleware(validation.MiddlewareConfig{
		MountPrefix:    cfg.MountPrefix,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		AllowUnmatched: cfg.AllowUnmatched,
		Logger:         logger,
		Observer:       s.metrics,
	})).Handle("/*", next)

	s.handler = r
	return s, nil
}

// Metrics returns the gateway's validation metrics.
func (s *Server) Metrics() *metrics.Validation {
	return s.metrics
}

// Handler returns the gateway router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound listen address once Run has started, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) upstreamHandler() (http.Handler, error) {
	if s.cfg.Upstream == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), nil
	}

	target, err := url.Parse(s.cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("server: parse upstream: %w", err)
	}
	proxy := nethttputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Error("upstream request failed",
			"request_id", r.Header.Get(validation.RequestIDHeader),
			"upstream", target.Host,
			"error", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteText(w, http.StatusOK, "ALIVE")
}

// Run listens on the configured address and blocks until ctx is cancelled,
// SIGINT/SIGTERM arrives, or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.srv = srv
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info("gateway started",
		"addr", ln.Addr().String(),
		"routes", len(s.engine.Routes()),
		"upstream", s.cfg.Upstream)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.shutdownAndWait(errCh)
	case sig := <-stop:
		s.logger.Info("signal received", "signal", sig.String())
		runErr = s.shutdownAndWait(errCh)
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	s.logger.Info("gateway stopped")
	return nil
}

func (s *Server) shutdownAndWait(errCh <-chan error) error {
	if err := s.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown stops the server gracefully within the configured timeout.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	var err error
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

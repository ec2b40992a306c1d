package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"skylarkhq/perch/pkg/config"
)

// Server is the lifecycle coordinator. It owns the listening socket,
// arms the signal handlers, and drives the state machine
//
//	Starting → Listening → ShuttingDown → Stopped
//
// Exactly one shutdown sequence runs per process: a second termination
// signal while already shutting down is ignored, and the grace-period
// timer is armed exactly once, at entry to ShuttingDown. If draining
// outlives the grace period the process force-exits non-zero; a clean
// drain exits zero.
type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	logger  *slog.Logger
	exit    func(code int)

	httpServer *http.Server
	listener   net.Listener

	state       atomic.Int32
	ready       chan struct{}
	shutdownCh  chan struct{}
	triggerOnce sync.Once
	drainOnce   sync.Once

	hookMu sync.Mutex
	hooks  []func()
}

// Option customizes the server.
type Option func(*Server)

// WithExitFunc replaces the process exit function. Tests inject a
// recorder; production uses os.Exit.
func WithExitFunc(exit func(code int)) Option {
	return func(s *Server) { s.exit = exit }
}

// New creates the lifecycle coordinator for the given handler.
func New(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg,
		handler:    handler,
		logger:     logger,
		exit:       os.Exit,
		ready:      make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
	s.state.Store(int32(StateStarting))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Ready is closed once the socket is bound and the server is
// listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Port returns the actual bound port. Valid once Ready is closed;
// useful when the configured port is 0.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// OnShutdown registers a hook to run after a clean drain, in
// registration order. Hooks do not run on a forced exit.
func (s *Server) OnShutdown(fn func()) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Shutdown requests a graceful shutdown, as if a termination signal
// had been received. Idempotent.
func (s *Server) Shutdown() {
	s.triggerOnce.Do(func() { close(s.shutdownCh) })
}

// Run binds the socket, serves until a termination signal, context
// cancellation, or Shutdown call, then drains. It returns nil after a
// clean drain; the caller exits zero. A bind failure is returned
// immediately — startup errors are the one case where the server never
// reaches Listening.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddress())
	if err != nil {
		s.state.Store(int32(StateStopped))
		return fmt.Errorf("failed to bind %s: %w", s.cfg.ListenAddress(), err)
	}
	s.listener = ln
	s.state.Store(int32(StateListening))
	close(s.ready)
	s.logger.Info("serving", "port", s.Port())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig.String())
	case <-s.shutdownCh:
		s.logger.Info("shutdown requested")
	case err := <-errCh:
		s.state.Store(int32(StateStopped))
		return fmt.Errorf("server error: %w", err)
	}

	return s.drain()
}

// drain runs the one-and-only shutdown sequence: stop accepting new
// connections, let in-flight ones finish, and close — racing the grace
// timer, which unconditionally terminates the process once expired.
func (s *Server) drain() error {
	var err error
	s.drainOnce.Do(func() {
		s.state.Store(int32(StateShuttingDown))
		s.logger.Info("shutting down", "grace", s.cfg.ShutdownGrace.String())

		force := time.AfterFunc(s.cfg.ShutdownGrace, func() {
			s.logger.Error("connection draining exceeded grace period, forcing exit",
				"grace", s.cfg.ShutdownGrace.String())
			s.exit(1)
		})
		defer force.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
		defer cancel()

		if err = s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("connection draining did not complete", "error", err)
			s.exit(1)
			return
		}

		s.state.Store(int32(StateStopped))
		s.runHooks()
		s.logger.Info("server stopped")
	})
	return err
}

func (s *Server) runHooks() {
	s.hookMu.Lock()
	hooks := s.hooks
	s.hookMu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

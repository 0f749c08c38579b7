package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/logger"
)

// ShutdownFunc releases one component during shutdown
type ShutdownFunc func(ctx context.Context) error

// GracefulServer wraps Echo server with graceful shutdown capabilities
type GracefulServer struct {
	echo            *echo.Echo
	logger          *logger.ZapLogger
	addr            string
	shutdownTimeout time.Duration
	hooks           []namedHook
}

type namedHook struct {
	name string
	fn   ShutdownFunc
}

// NewGracefulServer creates a new server with graceful shutdown
func NewGracefulServer(e *echo.Echo, zapLogger *logger.ZapLogger, host string, port int, shutdownTimeout time.Duration) *GracefulServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	return &GracefulServer{
		echo:            e,
		logger:          zapLogger,
		addr:            fmt.Sprintf("%s:%d", host, port),
		shutdownTimeout: shutdownTimeout,
	}
}

// OnShutdown registers a cleanup step. Steps run in registration order after
// the HTTP server has stopped accepting requests.
func (s *GracefulServer) OnShutdown(name string, fn ShutdownFunc) {
	s.hooks = append(s.hooks, namedHook{name: name, fn: fn})
}

// Start serves until SIGINT/SIGTERM, then shuts down
func (s *GracefulServer) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done or the listener fails, then shuts down
func (s *GracefulServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", logger.String("address", s.addr))
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Received shutdown signal")
	case err, ok := <-errCh:
		if ok && err != nil {
			s.logger.Error("HTTP server failed", logger.Err(err))
			_ = s.Shutdown()
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	return s.Shutdown()
}

// Shutdown stops the HTTP server and runs the cleanup hooks. Hook errors are
// logged and do not stop the remaining hooks.
func (s *GracefulServer) Shutdown() error {
	s.logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	serverErr := s.echo.Shutdown(ctx)
	if serverErr != nil {
		s.logger.Error("Server forced to shutdown", logger.Err(serverErr))
	}

	for _, h := range s.hooks {
		if err := h.fn(ctx); err != nil {
			s.logger.Error("Error during component shutdown",
				logger.String("component", h.name),
				logger.Err(err))
		}
	}

	s.logger.Info("Server shutdown completed")
	return serverErr
}

package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/verdio/gastrace/gastrace/log"
)

// ErrNoServerConfigured indicates Run was called without an app.
var ErrNoServerConfigured = errors.New("no server configured")

// Runner starts a fiber app and shuts it down gracefully on SIGINT/SIGTERM,
// draining in-flight requests within the shutdown timeout.
type Runner struct {
	app             *fiber.App
	address         string
	logger          log.Logger
	shutdownTimeout time.Duration
}

// NewRunner builds a Runner. A nil logger degrades to no-op.
func NewRunner(app *fiber.App, address string, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Runner{
		app:             app,
		address:         address,
		logger:          logger,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the drain deadline.
func (r *Runner) WithShutdownTimeout(timeout time.Duration) *Runner {
	r.shutdownTimeout = timeout

	return r
}

// Run blocks until the server stops. A signal triggers graceful shutdown; a
// listener error is returned as-is.
func (r *Runner) Run(ctx context.Context) error {
	if r.app == nil {
		return ErrNoServerConfigured
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- r.app.Listen(r.address)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-signalCh:
		r.logger.Log(ctx, log.LevelInfo, "shutdown signal received",
			log.String("signal", sig.String()))
	case <-ctx.Done():
		r.logger.Log(ctx, log.LevelInfo, "context canceled, shutting down")
	}

	if err := r.app.ShutdownWithTimeout(r.shutdownTimeout); err != nil {
		r.logger.Log(ctx, log.LevelError, "graceful shutdown failed", log.Err(err))

		return err
	}

	r.logger.Log(ctx, log.LevelInfo, "server stopped")

	return nil
}

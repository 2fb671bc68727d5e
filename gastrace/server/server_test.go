package server

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresApp(t *testing.T) {
	r := NewRunner(nil, ":0", nil)

	err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoServerConfigured)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	r := NewRunner(app, "127.0.0.1:0", nil).WithShutdownTimeout(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- r.Run(ctx)
	}()

	// Give the listener a moment to come up before canceling.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

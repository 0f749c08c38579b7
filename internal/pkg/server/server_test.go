package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestGracefulServer_RunStopsOnContext(t *testing.T) {
	// Arrange
	e := echo.New()
	e.HideBanner = true
	gs := NewGracefulServer(e, logger.NewNopLogger(), "127.0.0.1", freePort(t), time.Second)

	var order []string
	gs.OnShutdown("sessions", func(ctx context.Context) error {
		order = append(order, "sessions")
		return errors.New("one session failed to stop")
	})
	gs.OnShutdown("nats", func(ctx context.Context) error {
		order = append(order, "nats")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- gs.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"sessions", "nats"}, order)
}

func TestGracefulServer_ListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	e := echo.New()
	e.HideBanner = true
	gs := NewGracefulServer(e, logger.NewNopLogger(), "127.0.0.1", port, time.Second)

	err = gs.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start server")
}

package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbak/minbak-web/config"
)

func testServer() *http.Server {
	return &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}
}

func TestRunServicesWithShutdown_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- RunServicesWithShutdown(ctx, RunConfig{
			Server:          testServer(),
			ShutdownTimeout: time.Second,
			Background: []BackgroundService{{
				Name: "loop",
				Run: func(ctx context.Context) error {
					<-ctx.Done()
					close(stopped)
					return nil
				},
			}},
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("services did not stop after cancellation")
	}
	<-stopped
}

func TestRunServicesWithShutdown_BackgroundFailureStopsServer(t *testing.T) {
	err := RunServicesWithShutdown(context.Background(), RunConfig{
		Server:          testServer(),
		ShutdownTimeout: time.Second,
		Background: []BackgroundService{{
			Name: "reaper",
			Run:  func(context.Context) error { return errors.New("boom") },
		}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reaper: boom")
}

func TestRunServicesWithShutdown_RequiresServer(t *testing.T) {
	assert.Error(t, RunServicesWithShutdown(context.Background(), RunConfig{}))
}

func TestBuildBackgroundServices(t *testing.T) {
	svcs, err := BuildBackgroundServices(&config.AppConfig{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, svcs)

	_, err = BuildBackgroundServices(&config.AppConfig{Reaper: config.ReaperConfig{Enabled: true}}, nil, nil)
	require.Error(t, err)
}

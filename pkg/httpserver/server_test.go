package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livroelivro/sebo/pkg/httpserver"
	"github.com/livroelivro/sebo/pkg/logger"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestRunAndShutdown(t *testing.T) {
	srv := httpserver.New(
		httpserver.Config{ShutdownTimeout: time.Second},
		httpserver.WithListener(listen(t)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
	}()

	select {
	case <-srv.Ready():
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}

	assert.NoError(t, srv.Shutdown(context.Background()), "shutdown is idempotent")
}

func TestManualShutdown(t *testing.T) {
	srv := httpserver.New(httpserver.Config{}, httpserver.WithListener(listen(t)))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), nil) }()
	<-srv.Ready()

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunTwice(t *testing.T) {
	srv := httpserver.New(httpserver.Config{}, httpserver.WithListener(listen(t)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Run(ctx, nil) }()
	<-srv.Ready()

	err := srv.Run(ctx, nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)
}

func TestRunBadAddr(t *testing.T) {
	err := httpserver.New(httpserver.Config{Addr: "256.0.0.1:bad"}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestHealthCheckHandler(t *testing.T) {
	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(logger.Discard(), nil)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decode(t, rec)["status"])
	})

	t.Run("readiness failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(logger.Discard(), map[string]httpserver.Check{
			"store": func(context.Context) error { return errors.New("down") },
			"api":   func(context.Context) error { return nil },
		})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "unavailable", body["status"])
		assert.Equal(t, []any{"store"}, body["failed"])
	})
}

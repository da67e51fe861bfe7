package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livroelivro/sebo/pkg/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("defaults to JSON at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText)).Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "sebo"))).Info("hi")
		assert.Equal(t, "sebo", decode(t, buf)["svc"])
	})

	t.Run("context value", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("session_id", ctxKey{}))

		log.InfoContext(context.WithValue(context.Background(), ctxKey{}, "abc"), "hi")
		entry := decode(t, buf)
		assert.Equal(t, "abc", entry["session_id"])

		buf.Reset()
		log.With("k", "v").InfoContext(context.Background(), "hi")
		entry = decode(t, buf)
		assert.NotContains(t, entry, "session_id")
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("context extractors survive groups", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				return slog.String("request_id", "r-1"), true
			}),
		)
		log.WithGroup("g").InfoContext(context.Background(), "hi", "a", 1)
		entry := decode(t, buf)
		group, ok := entry["g"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "r-1", group["request_id"])
	})
}

func TestWithEnvironment(t *testing.T) {
	tests := []struct {
		env       string
		wantJSON  bool
		wantDebug bool
		wantEnv   string
	}{
		{env: "production", wantJSON: true, wantEnv: "production"},
		{env: "prod", wantJSON: true, wantEnv: "prod"},
		{env: "staging", wantJSON: true, wantEnv: "staging"},
		{env: "development", wantDebug: true, wantEnv: "development"},
		{env: "", wantDebug: true, wantEnv: "development"},
	}

	for _, tt := range tests {
		t.Run(tt.wantEnv+"/"+tt.env, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(tt.env, "sebo"))

			log.Debug("dbg")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			buf.Reset()
			log.Info("hi")
			if tt.wantJSON {
				entry := decode(t, buf)
				assert.Equal(t, "sebo", entry["service"])
				assert.Equal(t, tt.wantEnv, entry["env"])
			} else {
				assert.Contains(t, buf.String(), "service=sebo")
				assert.Contains(t, buf.String(), "env="+tt.wantEnv)
			}
		})
	}
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "boom", logger.Error(errors.New("boom")).Value.Any().(error).Error())
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, slog.Attr{}, logger.SessionID(""))
	assert.Equal(t, "s-1", logger.SessionID("s-1").Value.String())
	assert.Equal(t, "l*****@example.com", logger.Email("leitor@example.com").Value.String())
	assert.Equal(t, "***.***.***-25", logger.CPF("529.982.247-25").Value.String())
	assert.Equal(t, int64(3), logger.RetryCount(3).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "cart", logger.Component("cart").Value.String())
	assert.Equal(t, int64(404), logger.Status(404).Value.Int64())
	assert.Equal(t, "42", logger.BookID("42").Value.String())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { logger.Discard().Info("nothing") })
}

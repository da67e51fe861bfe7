package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livroelivro/sebo/pkg/config"
)

type apiConfig struct {
	URL        string        `env:"TEST_API_URL" envDefault:"https://api.example.com/"`
	Timeout    time.Duration `env:"TEST_API_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"TEST_API_MAX_RETRIES" envDefault:"3"`
	Origins    []string      `env:"TEST_API_ORIGINS" envSeparator:","`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

type dotenvConfig struct {
	Greeting string `env:"TEST_DOTENV_GREETING"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load[apiConfig]()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/", cfg.URL)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Empty(t, cfg.Origins)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TEST_API_URL", "http://localhost:9000/")
		t.Setenv("TEST_API_TIMEOUT", "250ms")
		t.Setenv("TEST_API_ORIGINS", "http://a.test,http://b.test")

		cfg, err := config.Load[apiConfig]()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/", cfg.URL)
		assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Setenv("TEST_API_MAX_RETRIES", "many")

		_, err := config.Load[apiConfig]()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("required value missing", func(t *testing.T) {
		_, err := config.Load[requiredConfig]()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() { config.MustLoad[requiredConfig]() })

	t.Setenv("TEST_REQUIRED_SECRET", "s3cr3t")
	assert.Equal(t, "s3cr3t", config.MustLoad[requiredConfig]().Secret)
}

func TestLoadFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_DOTENV_GREETING=olá\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TEST_DOTENV_GREETING") })

	cfg, err := config.LoadFiles[dotenvConfig](path)
	require.NoError(t, err)
	assert.Equal(t, "olá", cfg.Greeting)

	_, err = config.LoadFiles[dotenvConfig](filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrReadingDotenv)
}

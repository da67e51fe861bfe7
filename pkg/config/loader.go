package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load reads a .env file from the working directory (once per process, if it
// exists) and parses the environment into a new T using `env` and
// `envDefault` struct tags. Variables already set in the process environment
// take precedence over the file.
//
//	type HTTP struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	cfg, err := config.Load[HTTP]()
func Load[T any]() (T, error) {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	return parse[T]()
}

// LoadFiles is Load with explicit dotenv files, all of which must exist.
func LoadFiles[T any](files ...string) (T, error) {
	if err := godotenv.Load(files...); err != nil {
		var zero T
		return zero, errors.Join(ErrReadingDotenv, err)
	}
	return parse[T]()
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

func parse[T any]() (T, error) {
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

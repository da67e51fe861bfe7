// Package config loads typed configuration from environment variables with
// github.com/caarlos0/env, optionally seeded from .env files through
// github.com/joho/godotenv.
package config

// Package config loads process configuration for storefront binaries from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrMissingOrigin is returned when neither API_ORIGIN nor both explicit
// endpoint URLs are set.
var ErrMissingOrigin = errors.New("config: API_ORIGIN is required unless STOREFRONT_API_URL and STOREFRONT_CDN_URL are set")

// Config is the resolved storefront configuration.
type Config struct {
	APIURL      string
	CDNURL      string
	HTTPTimeout time.Duration
	LogLevel    zapcore.Level
}

type rawEnv struct {
	Origin      string        `env:"API_ORIGIN"`
	APIURL      string        `env:"STOREFRONT_API_URL"`
	CDNURL      string        `env:"STOREFRONT_CDN_URL"`
	HTTPTimeout time.Duration `env:"STOREFRONT_HTTP_TIMEOUT" envDefault:"10s"`
	LogLevel    string        `env:"STOREFRONT_LOG_LEVEL"    envDefault:"info"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var raw rawEnv
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	origin := strings.TrimRight(strings.TrimSpace(raw.Origin), "/")
	apiURL := strings.TrimSpace(raw.APIURL)
	cdnURL := strings.TrimSpace(raw.CDNURL)
	if origin == "" && (apiURL == "" || cdnURL == "") {
		return Config{}, ErrMissingOrigin
	}
	if apiURL == "" {
		apiURL = origin + "/api/weblarek"
	}
	if cdnURL == "" {
		cdnURL = origin + "/content/weblarek"
	}
	if raw.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("config: STOREFRONT_HTTP_TIMEOUT must be positive, got %s", raw.HTTPTimeout)
	}

	level, err := zapcore.ParseLevel(raw.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("config: STOREFRONT_LOG_LEVEL: %w", err)
	}

	return Config{
		APIURL:      strings.TrimRight(apiURL, "/"),
		CDNURL:      strings.TrimRight(cdnURL, "/"),
		HTTPTimeout: raw.HTTPTimeout,
		LogLevel:    level,
	}, nil
}

// Logger builds a production zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return cfg.Build()
}

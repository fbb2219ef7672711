package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	ExchangeAPIAddress string
	DatabaseURI        string
	TokenSecret        string
	OrderPollInterval  time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           string
	LogFile            string
	CORSOrigins        []string
}

const (
	defaultRunAddress        = ":8080"
	defaultTokenSecret       = "change-me-in-production"
	defaultOrderPollInterval = 5 * time.Second
	defaultRequestTimeout    = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		ExchangeAPIAddress: getString(lookup, "EXCHANGE_API_ADDRESS", ""),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		TokenSecret:        getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		OrderPollInterval:  getDuration(lookup, "ORDER_POLL_INTERVAL", defaultOrderPollInterval),
		RequestTimeout:     getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
		LogFile:            getString(lookup, "LOG_FILE", ""),
	}

	fset := flag.NewFlagSet("p2pdesk", flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.OrderPollInterval.String()
		requestTimeoutStr  = cfg.RequestTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		corsOrigins        = getString(lookup, "CORS_ORIGINS", "")
	)

	fset.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fset.StringVar(&cfg.ExchangeAPIAddress, "x", cfg.ExchangeAPIAddress, "Exchange API base URL")
	fset.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fset.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing viewer tokens")
	fset.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between order refetches")
	fset.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Exchange request timeout")
	fset.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fset.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Optional rotating log file")
	fset.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated allowed origins")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OrderPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	cfg.CORSOrigins = splitList(corsOrigins)

	if cfg.OrderPollInterval <= 0 {
		cfg.OrderPollInterval = defaultOrderPollInterval
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.ExchangeAPIAddress == "" {
		return nil, fmt.Errorf("exchange API address must be provided")
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether viewer tokens are signed with the built-in secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.TokenSecret == defaultTokenSecret
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvAPIBaseURL       = "LIBRARYDESK_API_BASE_URL"
	EnvProxyAddr        = "LIBRARYDESK_PROXY_ADDR"
	EnvISBNQuietMS      = "LIBRARYDESK_ISBN_QUIET_MS"
	EnvPageLimit        = "LIBRARYDESK_PAGE_LIMIT"
	EnvRequestTimeoutMS = "LIBRARYDESK_REQUEST_TIMEOUT_MS"
	EnvAuthToken        = "LIBRARYDESK_AUTH_TOKEN"
	EnvLogLevel         = "LOG_LEVEL"
)

const (
	defaultAPIBaseURL     = "http://localhost:4000/api/v1"
	defaultISBNQuiet      = 450 * time.Millisecond
	defaultPageLimit      = 8
	defaultRequestTimeout = 10 * time.Second
)

// ErrInvalidSetting marks a configuration value that could not be used.
var ErrInvalidSetting = errors.New("invalid setting")

// Config holds every setting of a library desk session.
type Config struct {
	APIBaseURL     string
	ProxyAddr      string
	ISBNQuiet      time.Duration
	PageLimit      int
	RequestTimeout time.Duration
	AuthToken      string
	LogLevel       slog.Level
}

type loadOptions struct {
	envFiles  []string
	skipFiles bool
	lookup    func(string) string
}

// Option configures Load.
type Option func(*loadOptions)

// WithEnvFiles loads the given .env files instead of ./.env.
func WithEnvFiles(paths ...string) Option {
	return func(o *loadOptions) {
		o.envFiles = paths
	}
}

// WithLookup replaces os.Getenv, e.g. for tests. No .env file is loaded then.
func WithLookup(lookup func(string) string) Option {
	return func(o *loadOptions) {
		o.lookup = lookup
		o.skipFiles = true
	}
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		ISBNQuiet:      defaultISBNQuiet,
		PageLimit:      defaultPageLimit,
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       slog.LevelInfo,
	}
}

// Load reads the .env file, if any, then the environment.
// A missing .env file is not an error. Invalid values are, and name the variable.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{lookup: os.Getenv}
	for _, opt := range opts {
		opt(&options)
	}

	if options.lookup == nil {
		options.lookup = os.Getenv
	}

	if !options.skipFiles {
		if err := loadEnvFiles(options.envFiles); err != nil {
			return Config{}, err
		}
	}

	get := options.lookup
	cfg := Default()
	cfg.APIBaseURL = strings.TrimRight(withDefault(get(EnvAPIBaseURL), defaultAPIBaseURL), "/")
	cfg.ProxyAddr = strings.TrimSpace(get(EnvProxyAddr))
	cfg.AuthToken = strings.TrimSpace(get(EnvAuthToken))

	var err error
	if cfg.ISBNQuiet, err = millisOr(get, EnvISBNQuietMS, defaultISBNQuiet, false); err != nil {
		return Config{}, err
	}

	if cfg.RequestTimeout, err = millisOr(get, EnvRequestTimeoutMS, defaultRequestTimeout, true); err != nil {
		return Config{}, err
	}

	if cfg.PageLimit, err = pageLimitOr(get, defaultPageLimit); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel, err = logLevelOr(get, slog.LevelInfo); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadEnvFiles(paths []string) error {
	if len(paths) == 0 {
		// Running without a .env file is normal, settings then come from the environment only.
		_ = godotenv.Load()
		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env files %v: %w", paths, err)
	}

	return nil
}

func withDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return strings.TrimSpace(value)
}

func millisOr(get func(string) string, key string, fallback time.Duration, positive bool) (time.Duration, error) {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return fallback, nil
	}

	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 || (positive && ms == 0) {
		return 0, fmt.Errorf("%w: %s=%q must be a non-negative number of milliseconds", ErrInvalidSetting, key, raw)
	}

	return time.Duration(ms) * time.Millisecond, nil
}

func pageLimitOr(get func(string) string, fallback int) (int, error) {
	raw := strings.TrimSpace(get(EnvPageLimit))
	if raw == "" {
		return fallback, nil
	}

	switch raw {
	case "5", "8", "12":
		limit, _ := strconv.Atoi(raw)
		return limit, nil
	}

	return 0, fmt.Errorf("%w: %s=%q must be one of 5, 8, 12", ErrInvalidSetting, EnvPageLimit, raw)
}

func logLevelOr(get func(string) string, fallback slog.Level) (slog.Level, error) {
	raw := strings.TrimSpace(get(EnvLogLevel))
	if raw == "" {
		return fallback, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("%w: %s=%q must be debug, info, warn or error", ErrInvalidSetting, EnvLogLevel, raw)
	}

	return level, nil
}

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/shell/config"
)

func Test_Load_Defaults(t *testing.T) {
	// act
	cfg, err := config.Load(config.WithLookup(lookupFrom(nil)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg, "Should fall back to defaults when nothing is set")
	assert.Equal(t, "http://localhost:4000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 450*time.Millisecond, cfg.ISBNQuiet)
	assert.Equal(t, 8, cfg.PageLimit)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func Test_Load_ReadsEnvironment(t *testing.T) {
	// arrange
	env := map[string]string{
		config.EnvAPIBaseURL:       "https://library.example.org/api/v1/",
		config.EnvProxyAddr:        "127.0.0.1:9050",
		config.EnvISBNQuietMS:      "0",
		config.EnvPageLimit:        "12",
		config.EnvRequestTimeoutMS: "2500",
		config.EnvAuthToken:        " token ",
		config.EnvLogLevel:         "debug",
	}

	// act
	cfg, err := config.Load(config.WithLookup(lookupFrom(env)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "https://library.example.org/api/v1", cfg.APIBaseURL, "Should drop the trailing slash")
	assert.Equal(t, "127.0.0.1:9050", cfg.ProxyAddr)
	assert.Equal(t, time.Duration(0), cfg.ISBNQuiet, "Should allow an immediate lookup")
	assert.Equal(t, 12, cfg.PageLimit)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "token", cfg.AuthToken)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		key   string
		value string
	}{
		{config.EnvPageLimit, "10"},
		{config.EnvPageLimit, "eight"},
		{config.EnvISBNQuietMS, "-1"},
		{config.EnvRequestTimeoutMS, "0"},
		{config.EnvRequestTimeoutMS, "soon"},
		{config.EnvLogLevel, "loud"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			_, err := config.Load(config.WithLookup(lookupFrom(map[string]string{tc.key: tc.value})))

			assert.ErrorIs(t, err, config.ErrInvalidSetting)
			assert.ErrorContains(t, err, tc.key, "Should name the offending variable")
		})
	}
}

func Test_Load_ReadsEnvFile(t *testing.T) {
	// arrange
	dir := t.TempDir()
	envFile := filepath.Join(dir, "desk.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LIBRARYDESK_PAGE_LIMIT=5\n"), 0o600))
	t.Setenv(config.EnvPageLimit, "")
	require.NoError(t, os.Unsetenv(config.EnvPageLimit))

	// act
	cfg, err := config.Load(config.WithEnvFiles(envFile))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.PageLimit)
}

func Test_Load_FailsOnMissingExplicitEnvFile(t *testing.T) {
	_, err := config.Load(config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))

	assert.Error(t, err, "Should fail when an explicitly named env file is missing")
}

func lookupFrom(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

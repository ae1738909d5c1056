package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func load(t *testing.T, configFile string, args ...string) (*Config, error) {
	t.Helper()
	v := New()
	require.NoError(t, BindFlags(v, newFlags(t, args...)))
	return Load(v, configFile)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultCachePath, cfg.CachePath)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "digimarket.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"api_url: http://file.example:8000/\n"+
			"db: file.db\n"+
			"timeout: 5s\n"+
			"log_level: info\n"), 0o600))

	// Файл переопределяет defaults
	cfg, err := load(t, file)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example:8000", cfg.APIURL)
	assert.Equal(t, "file.db", cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultCachePath, cfg.CachePath)

	// Окружение переопределяет файл
	t.Setenv("MARKETPLACE_API_URL", "https://env.example")
	t.Setenv("MARKETPLACE_LOG_LEVEL", "debug")
	cfg, err = load(t, file)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.APIURL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	// Явный флаг переопределяет окружение
	cfg, err = load(t, file, "--api-url", "http://flag.example", "--timeout", "1m")
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example", cfg.APIURL)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "not a url", args: []string{"--api-url", "localhost:8000"}},
		{name: "ftp scheme", args: []string{"--api-url", "ftp://example.com"}},
		{name: "bad log level", args: []string{"--log-level", "loud"}},
		{name: "negative timeout", args: []string{"--timeout", "-1s"}},
		{name: "empty db", args: []string{"--db", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := load(t, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

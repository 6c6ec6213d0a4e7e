package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jlagedo/capivara-mcp/internal/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	require.Equal(t, config.TransportStdio, cfg.Server.Transport)
	require.Equal(t, 30*time.Second, cfg.ToolTimeout())
	require.Equal(t, "https://api.bcb.gov.br/dados/serie", cfg.SGS.BaseURL)
	require.Equal(t, "https://olinda.bcb.gov.br/olinda/servico", cfg.Olinda.BaseURL)
}

// Tests below use t.Setenv and cannot run in parallel.

func TestLoad_FileThenEnv(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"server":{"transport":"http","addr":":9090","tool_timeout_sec":10},"sgs":{"base_url":"http://sgs.local"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CAPIVARA_ADDR", ":7070")
	t.Setenv("LOG_LEVEL", "debug")

	// Act
	cfg, err := config.Load(path)

	// Assert
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, config.TransportHTTP, cfg.Server.Transport)
	require.Equal(t, ":7070", cfg.Server.Addr)
	require.Equal(t, 10*time.Second, cfg.ToolTimeout())
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "http://sgs.local", cfg.SGS.BaseURL)
	require.Equal(t, "https://olinda.bcb.gov.br/olinda/servico", cfg.Olinda.BaseURL)
	require.Equal(t, 25*time.Second, cfg.RequestTimeout())
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_BadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":`), 0o600))

	_, err := config.Load(path)
	require.ErrorContains(t, err, "parse config")

	t.Setenv("CAPIVARA_TOOL_TIMEOUT_SEC", "thirty")
	_, err = config.Load("")
	require.ErrorContains(t, err, "parse environment")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "transport", mutate: func(c *config.Config) { c.Server.Transport = "sse" }, want: "invalid transport"},
		{name: "http without addr", mutate: func(c *config.Config) { c.Server.Transport = config.TransportHTTP; c.Server.Addr = "" }, want: "addr"},
		{name: "tool timeout", mutate: func(c *config.Config) { c.Server.ToolTimeoutSec = 0 }, want: "tool timeout"},
		{name: "request timeout", mutate: func(c *config.Config) { c.Server.RequestTimeoutSec = -1 }, want: "request timeout"},
		{name: "log level", mutate: func(c *config.Config) { c.Server.LogLevel = "trace" }, want: "log level"},
		{name: "base url", mutate: func(c *config.Config) { c.Olinda.BaseURL = "olinda" }, want: "olinda base url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(&cfg)

			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

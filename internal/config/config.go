package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Server struct {
	Transport         string `json:"transport" env:"CAPIVARA_TRANSPORT"`
	Addr              string `json:"addr" env:"CAPIVARA_ADDR"`
	ToolTimeoutSec    int    `json:"tool_timeout_sec" env:"CAPIVARA_TOOL_TIMEOUT_SEC"`
	RequestTimeoutSec int    `json:"request_timeout_sec" env:"CAPIVARA_REQUEST_TIMEOUT_SEC"`
	UserAgent         string `json:"user_agent" env:"CAPIVARA_USER_AGENT"`
	LogLevel          string `json:"log_level" env:"LOG_LEVEL"`
}

type SGS struct {
	BaseURL string `json:"base_url" env:"SGS_BASE_URL"`
}

type Olinda struct {
	BaseURL string `json:"base_url" env:"OLINDA_BASE_URL"`
}

type Config struct {
	Server Server `json:"server"`
	SGS    SGS    `json:"sgs"`
	Olinda Olinda `json:"olinda"`
}

func Default() Config {
	return Config{
		Server: Server{
			Transport:         TransportStdio,
			Addr:              ":8080",
			ToolTimeoutSec:    30,
			RequestTimeoutSec: 25,
			UserAgent:         "capivara-mcp/1.0",
			LogLevel:          "info",
		},
		SGS:    SGS{BaseURL: sgs.DefaultBaseURL},
		Olinda: Olinda{BaseURL: olinda.DefaultBaseURL},
	}
}

// Load reads JSON config from path. If path is empty it falls back to
// ./config.json when present, otherwise defaults. Environment variables
// override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// ToolTimeout is the bounded wait applied to each provider call.
func (c Config) ToolTimeout() time.Duration {
	return time.Duration(c.Server.ToolTimeoutSec) * time.Second
}

// RequestTimeout bounds a single outbound HTTP request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport: %q", c.Server.Transport)
	}
	if c.Server.Transport == TransportHTTP && c.Server.Addr == "" {
		return errors.New("addr is required for the http transport")
	}
	if c.Server.ToolTimeoutSec < 1 {
		return fmt.Errorf("tool timeout must be at least 1s, got %ds", c.Server.ToolTimeoutSec)
	}
	if c.Server.RequestTimeoutSec < 1 {
		return fmt.Errorf("request timeout must be at least 1s, got %ds", c.Server.RequestTimeoutSec)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Server.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	for name, raw := range map[string]string{"sgs": c.SGS.BaseURL, "olinda": c.Olinda.BaseURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s base url: %q", name, raw)
		}
	}
	return nil
}

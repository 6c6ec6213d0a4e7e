package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jlagedo/capivara-mcp/internal/config"
	"github.com/jlagedo/capivara-mcp/internal/httpx"
	"github.com/jlagedo/capivara-mcp/internal/instrumentation"
	mcpserver "github.com/jlagedo/capivara-mcp/internal/mcp"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
	"github.com/jlagedo/capivara-mcp/internal/tools"
)

var version = "dev"

func main() {
	var transport, addr, cfgPath string
	flag.StringVar(&transport, "transport", "", "stdio or http (overrides config)")
	flag.StringVar(&addr, "addr", "", "listen address for the http transport (overrides config)")
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if transport != "" {
		cfg.Server.Transport = transport
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// stdout carries the stdio transport, so logs always go to stderr
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := instrumentation.NewMetrics(reg)

	httpClient := httpx.New(cfg.RequestTimeout())
	httpClient.UserAgent = cfg.Server.UserAgent
	svc := tools.NewService(
		sgs.NewClient(sgs.WithBaseURL(cfg.SGS.BaseURL), sgs.WithHTTPClient(httpClient)),
		olinda.NewClient(olinda.WithBaseURL(cfg.Olinda.BaseURL), olinda.WithHTTPClient(httpClient)),
		tools.WithTimeout(cfg.ToolTimeout()),
		tools.WithLogger(logger),
		tools.WithRecorder(metrics),
	)

	srv, err := mcpserver.New(svc, logger, version)
	if err != nil {
		logger.Error("failed to create mcp server", "error", err)
		os.Exit(1)
	}

	logger.Info("mcp_service_starting",
		"version", version,
		"transport", cfg.Server.Transport,
		"tool_timeout_sec", cfg.Server.ToolTimeoutSec,
		"sgs_base_url", cfg.SGS.BaseURL,
		"olinda_base_url", cfg.Olinda.BaseURL,
	)

	if cfg.Server.Transport == config.TransportStdio {
		if err := srv.ServeStdio(); err != nil {
			logger.Error("stdio_server_error", "error", err)
			os.Exit(1)
		}
		logger.Info("mcp_service_stopped")
		return
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(logger, srv.HTTPHandler(), reg),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("mcp_server_listening", "transport", "http", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutdown_signal_received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	logger.Info("mcp_service_stopped")
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

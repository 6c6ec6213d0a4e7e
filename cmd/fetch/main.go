package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jlagedo/capivara-mcp/internal/config"
	"github.com/jlagedo/capivara-mcp/internal/httpx"
	mcpserver "github.com/jlagedo/capivara-mcp/internal/mcp"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
	"github.com/jlagedo/capivara-mcp/internal/tools"
)

// integerArgs are the tool arguments declared as integers; every other
// argument is passed as a string.
var integerArgs = map[string]bool{"top": true}

// argList collects repeated -arg key=value flags.
type argList map[string]any

func (a argList) String() string { return fmt.Sprint(map[string]any(a)) }

func (a argList) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	if integerArgs[key] {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		a[key] = n
		return nil
	}
	a[key] = value
	return nil
}

func main() {
	var (
		tool    string
		cfgPath string
		timeout int
		verbose bool
	)
	args := argList{}
	flag.StringVar(&tool, "tool", tools.ToolSelic, "tool name, e.g. get_ptax, get_inflacao, get_taxa_juros")
	flag.Var(args, "arg", "tool argument as key=value (repeatable)")
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.IntVar(&timeout, "timeout", 0, "tool timeout seconds (overrides config)")
	flag.BoolVar(&verbose, "v", false, "log provider diagnostics to stderr")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if timeout > 0 {
		cfg.Server.ToolTimeoutSec = timeout
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	httpClient := httpx.New(cfg.RequestTimeout())
	httpClient.UserAgent = cfg.Server.UserAgent
	svc := tools.NewService(
		sgs.NewClient(sgs.WithBaseURL(cfg.SGS.BaseURL), sgs.WithHTTPClient(httpClient)),
		olinda.NewClient(olinda.WithBaseURL(cfg.Olinda.BaseURL), olinda.WithHTTPClient(httpClient)),
		tools.WithTimeout(cfg.ToolTimeout()),
		tools.WithLogger(logger),
	)
	srv, err := mcpserver.New(svc, logger, "cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ToolTimeout()+5*time.Second)
	defer cancel()
	out, err := srv.Call(ctx, tool, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "call: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

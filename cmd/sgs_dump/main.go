package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jlagedo/capivara-mcp/internal/config"
	"github.com/jlagedo/capivara-mcp/internal/httpx"
	"github.com/jlagedo/capivara-mcp/internal/provider/ratelimit"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
	"github.com/jlagedo/capivara-mcp/internal/validate"
)

type seriesGetter interface {
	GetSeries(ctx context.Context, code int, start, end time.Time) ([]sgs.Observation, error)
}

type point struct {
	Date  string   `json:"data"`
	Value *float64 `json:"valor"`
}

type window struct{ start, end time.Time }

type dumper struct {
	client      seriesGetter
	logger      *slog.Logger
	concurrency int
	maxRetries  int
	backoff     time.Duration
}

func main() {
	var (
		codesCSV    string
		startText   string
		endText     string
		outPath     string
		cfgPath     string
		chunkYears  int
		concurrency int
		maxRetries  int
		rpm         int
		burst       int
	)
	flag.StringVar(&codesCSV, "codes", "432,11", "comma-separated SGS series codes")
	flag.StringVar(&startText, "start", "", "first date YYYY-MM-DD (default: one year before -end)")
	flag.StringVar(&endText, "end", "", "last date YYYY-MM-DD (default: today)")
	flag.StringVar(&outPath, "out", "sgs_series.json", "output JSON file path")
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.IntVar(&chunkYears, "chunk-years", 10, "maximum years per SGS request")
	flag.IntVar(&concurrency, "concurrency", 4, "number of parallel requests")
	flag.IntVar(&maxRetries, "retries", 3, "max retries on 429/5xx")
	flag.IntVar(&rpm, "rpm", 0, "max requests per minute (0 = unlimited)")
	flag.IntVar(&burst, "burst", 1, "requests allowed in a burst when -rpm is set")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fatal := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal("config", err)
	}
	codes, err := parseCodes(codesCSV)
	if err != nil {
		fatal("codes", err)
	}
	end := validate.Today(time.Now())
	if endText != "" {
		if end, err = time.Parse(validate.DateLayout, endText); err != nil {
			fatal("end", err)
		}
	}
	start := end.AddDate(-1, 0, 0)
	if startText != "" {
		if start, err = time.Parse(validate.DateLayout, startText); err != nil {
			fatal("start", err)
		}
	}
	if start.After(end) {
		fatal("range", errors.New("start is after end"))
	}

	httpClient := httpx.New(cfg.RequestTimeout())
	httpClient.UserAgent = cfg.Server.UserAgent
	var doer sgs.HTTPClient = httpClient
	if rpm > 0 {
		doer = &ratelimit.Client{Next: httpClient, Bucket: ratelimit.PerMinute(rpm, burst)}
	}
	d := &dumper{
		client:      sgs.NewClient(sgs.WithBaseURL(cfg.SGS.BaseURL), sgs.WithHTTPClient(doer)),
		logger:      logger,
		concurrency: concurrency,
		maxRetries:  maxRetries,
		backoff:     250 * time.Millisecond,
	}

	logger.Info("dump_starting", "codes", len(codes), "start", start.Format(validate.DateLayout), "end", end.Format(validate.DateLayout))
	out, err := d.dump(context.Background(), codes, split(start, end, chunkYears))
	if err != nil {
		fatal("dump", err)
	}

	if err := writeJSON(outPath, map[string]any{"series": out}); err != nil {
		fatal("write out", err)
	}
	logger.Info("dump_done", "out", outPath)
}

// writeJSON encodes v into a new file at path.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func parseCodes(csv string) ([]int, error) {
	var codes []int
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil || code <= 0 {
			return nil, fmt.Errorf("invalid series code %q", part)
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil, errors.New("no series codes given")
	}
	return codes, nil
}

// split cuts [start, end] into consecutive windows of at most years each.
func split(start, end time.Time, years int) []window {
	if years <= 0 {
		return []window{{start, end}}
	}
	var out []window
	for from := start; !from.After(end); {
		to := from.AddDate(years, 0, -1)
		if to.After(end) {
			to = end
		}
		out = append(out, window{from, to})
		from = to.AddDate(0, 0, 1)
	}
	return out
}

// dump fetches every (code, window) pair with bounded concurrency and
// returns the observations per code, in the order the codes were given.
func (d *dumper) dump(ctx context.Context, codes []int, windows []window) (*orderedmap.OrderedMap[string, []point], error) {
	var mu sync.Mutex
	collected := make(map[int][]sgs.Observation, len(codes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.concurrency, 1))
	for _, code := range codes {
		for _, w := range windows {
			g.Go(func() error {
				obs, err := d.fetch(ctx, code, w)
				if err != nil {
					return fmt.Errorf("series %d %s..%s: %w", code, w.start.Format(validate.DateLayout), w.end.Format(validate.DateLayout), err)
				}
				mu.Lock()
				collected[code] = append(collected[code], obs...)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := orderedmap.New[string, []point](len(codes))
	for _, code := range codes {
		obs := collected[code]
		sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
		points := make([]point, 0, len(obs))
		for _, o := range obs {
			points = append(points, point{Date: o.Date.Format(validate.DateLayout), Value: o.Value})
		}
		out.Set(strconv.Itoa(code), points)
		d.logger.Info("series_dumped", "code", code, "observations", len(points))
	}
	return out, nil
}

func (d *dumper) fetch(ctx context.Context, code int, w window) ([]sgs.Observation, error) {
	for attempt := 0; ; attempt++ {
		obs, err := d.client.GetSeries(ctx, code, w.start, w.end)
		if err == nil {
			return obs, nil
		}
		var se *sgs.StatusError
		retryable := errors.As(err, &se) && (se.Code == 429 || se.Code >= 500)
		if !retryable || attempt >= d.maxRetries {
			return nil, err
		}
		d.logger.Warn("retrying", "code", code, "status", se.Code, "attempt", attempt+1)
		select {
		case <-time.After(d.backoff * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

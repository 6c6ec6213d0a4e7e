package tools_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
)

type seriesCall struct {
	series     []sgs.Series
	start, end time.Time
}

type fakeSeries struct {
	mu    sync.Mutex
	table *provider.Table
	err   error
	block bool
	calls []seriesCall
}

func (f *fakeSeries) GetFrame(ctx context.Context, series []sgs.Series, start, end time.Time) (*provider.Table, error) {
	f.mu.Lock()
	f.calls = append(f.calls, seriesCall{series: series, start: start, end: end})
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.table, f.err
}

func (f *fakeSeries) Calls() []seriesCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]seriesCall(nil), f.calls...)
}

type fakeOData struct {
	mu       sync.Mutex
	table    *provider.Table
	err      error
	panics   bool
	requests []olinda.Request
}

func (f *fakeOData) Query(_ context.Context, r olinda.Request) (*provider.Table, error) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()
	if f.panics {
		panic("nil map write")
	}
	return f.table, f.err
}

func (f *fakeOData) Requests() []olinda.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]olinda.Request(nil), f.requests...)
}

type observation struct {
	tool, outcome string
}

type fakeRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeRecorder) ObserveTool(tool, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{tool, outcome})
}

// fixedNow is "today" for every test: 2025-03-15, late evening.
func fixedNow() time.Time {
	return time.Date(2025, time.March, 15, 22, 30, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func erro(t *testing.T, out string) string {
	t.Helper()
	doc := decode(t, out)
	require.Len(t, doc, 1, out)
	msg, ok := doc["erro"].(string)
	require.True(t, ok, out)
	return msg
}

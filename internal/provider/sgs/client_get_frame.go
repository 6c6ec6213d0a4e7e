package sgs

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jlagedo/capivara-mcp/internal/provider"
)

// IndexColumn names the date column of every frame.
const IndexColumn = "data"

// Series is one SGS code and the column it fills in a frame.
type Series struct {
	Label string
	Code  int
}

// GetFrame fetches every series concurrently and outer-joins them on date,
// ascending. A date missing from one series leaves that cell nil.
func (c *Client) GetFrame(ctx context.Context, series []Series, start, end time.Time) (*provider.Table, error) {
	columns := make([]string, 0, len(series)+1)
	columns = append(columns, IndexColumn)
	for _, s := range series {
		columns = append(columns, s.Label)
	}

	results := make([][]Observation, len(series))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range series {
		g.Go(func() error {
			observations, err := c.GetSeries(gctx, s.Code, start, end)
			if err != nil {
				return fmt.Errorf("fetching %s (%d): %w", s.Label, s.Code, err)
			}
			results[i] = observations
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := map[time.Time][]any{}
	var dates []time.Time
	for i, observations := range results {
		for _, o := range observations {
			row, ok := rows[o.Date]
			if !ok {
				row = make([]any, len(columns))
				row[0] = o.Date
				rows[o.Date] = row
				dates = append(dates, o.Date)
			}
			if o.Value != nil {
				row[i+1] = *o.Value
			}
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	table := provider.NewTable(columns...)
	for _, d := range dates {
		table.Rows = append(table.Rows, rows[d])
	}
	return table, nil
}

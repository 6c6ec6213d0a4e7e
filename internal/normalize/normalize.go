package normalize

import (
	"math"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jlagedo/capivara-mcp/internal/provider"
)

// Record is one output row. Keys keep the provider column order.
type Record = orderedmap.OrderedMap[string, any]

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Granularity is how a temporal column is rendered.
type Granularity int

const (
	// Date renders YYYY-MM-DD.
	Date Granularity = iota
	// Timestamp renders YYYY-MM-DD HH:MM:SS.
	Timestamp
)

// Layout returns the time layout for g.
func (g Granularity) Layout() string {
	if g == Timestamp {
		return TimestampLayout
	}
	return DateLayout
}

// Detect reports Timestamp when any value carries a time of day.
func Detect(values []time.Time) Granularity {
	for _, v := range values {
		h, m, s := v.Clock()
		if h != 0 || m != 0 || s != 0 || v.Nanosecond() != 0 {
			return Timestamp
		}
	}
	return Date
}

// Rename maps columns through fields. Columns without an entry keep their
// name; entries for absent columns are ignored.
func Rename(columns []string, fields map[string]string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		if to, ok := fields[c]; ok {
			out[i] = to
		} else {
			out[i] = c
		}
	}
	return out
}

// Records turns t into flat records in row order, renaming columns and
// formatting temporal cells per column granularity.
func Records(t *provider.Table, fields map[string]string) []*Record {
	if t.Len() == 0 {
		return []*Record{}
	}

	names := Rename(t.Columns, fields)
	layouts := make([]string, len(t.Columns))
	for i := range t.Columns {
		var stamps []time.Time
		for _, row := range t.Rows {
			if ts, ok := row[i].(time.Time); ok {
				stamps = append(stamps, ts)
			}
		}
		if len(stamps) > 0 {
			layouts[i] = Detect(stamps).Layout()
		}
	}

	out := make([]*Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := orderedmap.New[string, any](len(names))
		for i, name := range names {
			rec.Set(name, cell(row[i], layouts[i]))
		}
		out = append(out, rec)
	}
	return out
}

func cell(v any, layout string) any {
	switch v := v.(type) {
	case time.Time:
		if layout == "" {
			layout = TimestampLayout
		}
		return v.Format(layout)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil
		}
		return v
	default:
		return v
	}
}

package olinda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jlagedo/capivara-mcp/internal/provider"
)

// Request describes one OData query against an Olinda service.
type Request struct {
	// Service and Version select the service root, e.g. "PTAX" and "v1".
	Service string
	Version string
	// Resource is the entity set or function name.
	Resource string
	// Params are function parameters, bound as @name='value'.
	Params []Param
	Filter  string
	OrderBy string
	Select  []string
	Top     int
	// Temporal lists the columns decoded into time.Time.
	Temporal []string
}

// Param is one function parameter.
type Param struct {
	Name  string
	Value string
}

// StatusError is returned when Olinda answers with an unexpected status.
type StatusError struct {
	Code     int
	Resource string
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("olinda %s: unexpected status code: %d: %s", e.Resource, e.Code, e.Body)
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Quote renders s as an OData string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// URL builds the request URL below base.
func (r Request) URL(base string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s/versao/%s/odata/%s", strings.TrimRight(base, "/"), r.Service, r.Version, r.Resource)

	var query []string
	if len(r.Params) > 0 {
		names := make([]string, 0, len(r.Params))
		for _, p := range r.Params {
			names = append(names, p.Name+"=@"+p.Name)
			query = append(query, "@"+p.Name+"="+escape(Quote(p.Value)))
		}
		b.WriteString("(" + strings.Join(names, ",") + ")")
	}
	if r.Filter != "" {
		query = append(query, "$filter="+escape(r.Filter))
	}
	if r.OrderBy != "" {
		query = append(query, "$orderby="+escape(r.OrderBy))
	}
	if len(r.Select) > 0 {
		query = append(query, "$select="+escape(strings.Join(r.Select, ",")))
	}
	if r.Top > 0 {
		query = append(query, "$top="+strconv.Itoa(r.Top))
	}
	query = append(query, "$format=json")

	b.WriteString("?" + strings.Join(query, "&"))
	return b.String()
}

// escape percent-encodes an OData query value. Spaces become %20.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// Query runs r and returns its rows. Columns follow $select when given,
// otherwise the order in which the provider first sent each field.
func (c *Client) Query(ctx context.Context, r Request) (*provider.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(c.baseURL), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &StatusError{Code: res.StatusCode, Resource: r.Resource, Body: strings.TrimSpace(string(b))}
	}

	// {"@odata.context": "...", "value": [{...}, ...]}
	var body struct {
		Value []*orderedmap.OrderedMap[string, any] `json:"value"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", r.Resource, err)
	}

	columns := append([]string(nil), r.Select...)
	if len(columns) == 0 {
		seen := map[string]bool{}
		for _, row := range body.Value {
			if row == nil {
				continue
			}
			for pair := row.Oldest(); pair != nil; pair = pair.Next() {
				if !seen[pair.Key] {
					seen[pair.Key] = true
					columns = append(columns, pair.Key)
				}
			}
		}
	}

	temporal := map[string]bool{}
	for _, col := range r.Temporal {
		temporal[col] = true
	}

	table := provider.NewTable(columns...)
	for _, row := range body.Value {
		if row == nil {
			continue
		}
		cells := make([]any, len(columns))
		for i, col := range columns {
			v, _ := row.Get(col)
			if s, ok := v.(string); ok && temporal[col] {
				v = parseTimestamp(s)
			}
			cells[i] = v
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// parseTimestamp returns a time.Time for the date and datetime shapes
// Olinda emits, or s unchanged.
func parseTimestamp(s string) any {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return s
}

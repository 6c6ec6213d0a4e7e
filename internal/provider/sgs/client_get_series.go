package sgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the dd/MM/yyyy format SGS uses both ways.
const dateLayout = "02/01/2006"

// Observation is one point of an SGS series.
type Observation struct {
	Date  time.Time
	Value *float64
}

// StatusError is returned when SGS answers with an unexpected status.
type StatusError struct {
	Code   int
	Series int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sgs series %d: unexpected status code: %d: %s", e.Series, e.Code, e.Body)
}

// GetSeries retrieves one series between start and end, inclusive.
// SGS answers 404 when the window holds no data; that is an empty result.
func (c *Client) GetSeries(ctx context.Context, code int, start, end time.Time) ([]Observation, error) {
	url := fmt.Sprintf("%s/bcdata.sgs.%d/dados?formato=json&dataInicial=%s&dataFinal=%s",
		strings.TrimRight(c.baseURL, "/"), code, start.Format(dateLayout), end.Format(dateLayout))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound, http.StatusNoContent:
		return []Observation{}, nil

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &StatusError{Code: res.StatusCode, Series: code, Body: strings.TrimSpace(string(b))}
	}

	// [{"data": "02/01/2025", "valor": "12.15"}]
	var body []struct {
		Data  string `json:"data"`
		Valor any    `json:"valor"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding series %d response: %w", code, err)
	}

	observations := make([]Observation, 0, len(body))
	for _, point := range body {
		date, err := time.Parse(dateLayout, point.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding date %q: %w", point.Data, err)
		}
		value, err := parseValue(point.Valor)
		if err != nil {
			return nil, fmt.Errorf("decoding value for %s: %w", point.Data, err)
		}
		observations = append(observations, Observation{Date: date, Value: value})
	}
	return observations, nil
}

// parseValue accepts the quoted decimal SGS sends, a bare number, or
// nothing at all.
func parseValue(v any) (*float64, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("unexpected type: %T", v)
	}
}

package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
	"github.com/jlagedo/capivara-mcp/internal/fetch"
	"github.com/jlagedo/capivara-mcp/internal/normalize"
	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/registry"
	"github.com/jlagedo/capivara-mcp/internal/validate"
)

// OutcomeOK is recorded for invocations that returned data.
const OutcomeOK = "ok"

// Input carries the caller's raw parameters. Empty strings and a zero Top
// mean the parameter was omitted.
type Input struct {
	Indicator string
	Start     string
	End       string
	Top       int
	Month     string
	Modality  string
}

// Query is an invocation after validation and defaulting.
type Query[K any] struct {
	Indicator string
	Key       K
	Start     time.Time
	End       time.Time
	Top       int
	Month     string
	Modality  string
}

// Window bounds the date range of a windowed tool, in days.
type Window struct {
	DefaultDays int
	MaxDays     int
}

// Family describes one tool: how its input is checked, where its data
// comes from and how the success document is shaped.
type Family[K any] struct {
	Tool string
	// Indicators, when set, resolves the indicator parameter.
	// DefaultIndicator fills it in when omitted.
	Indicators       *registry.Registry[K]
	DefaultIndicator string
	// Window, when set, makes the tool take data_inicio/data_fim.
	Window *Window
	// DefaultTop, when positive, makes the tool take a result limit.
	DefaultTop int
	// Fields renames provider columns in the output records.
	Fields  map[string]string
	DataKey string
	// API names the upstream service in connectivity failures.
	API string

	Subject func(q Query[K]) string
	Header  func(q Query[K], doc *envelope.Document)
	Empty   func(q Query[K]) string
	Check   func(q *Query[K]) error
	Fetch   func(ctx context.Context, q Query[K]) (*provider.Table, error)
}

// Recorder receives one observation per invocation.
type Recorder interface {
	ObserveTool(tool, outcome string, elapsed time.Duration)
}

// Runner executes tool families. The zero value is usable.
type Runner struct {
	Timeout time.Duration
	Now     func() time.Time
	Logger  *slog.Logger
	Metrics Recorder
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run executes one invocation of f and returns its JSON envelope.
func Run[K any](ctx context.Context, r *Runner, f *Family[K], in Input) string {
	start := time.Now()
	out, outcome := run(ctx, r, f, in)
	if r.Metrics != nil {
		r.Metrics.ObserveTool(f.Tool, outcome, time.Since(start))
	}
	return out
}

func run[K any](ctx context.Context, r *Runner, f *Family[K], in Input) (string, string) {
	q, err := prepare(r, f, in)
	if err != nil {
		return envelope.Error(err.Error()), string(envelope.KindValidation)
	}

	callID := uuid.NewString()
	log := r.logger().With(
		slog.String("tool", f.Tool),
		slog.String("call_id", callID),
	)
	log.DebugContext(ctx, "tool_call", params(q)...)

	table, err := fetch.Do(ctx, r.Timeout, func(ctx context.Context) (*provider.Table, error) {
		return f.Fetch(ctx, q)
	})
	if err != nil {
		kind := fetch.Classify(err)
		switch kind {
		case envelope.KindTimeout:
			log.WarnContext(ctx, "tool_timeout", params(q)...)
			return envelope.Error(fmt.Sprintf("Tempo limite excedido ao consultar %s. Tente novamente.", f.Subject(q))), string(kind)
		case envelope.KindConnectivity:
			log.WarnContext(ctx, "tool_connectivity_error", append(params(q), slog.Any("error", err))...)
			return envelope.Error(fmt.Sprintf("Não foi possível conectar à %s. Verifique sua conexão.", f.API)), string(kind)
		case envelope.KindCanceled:
			log.DebugContext(ctx, "tool_canceled", params(q)...)
			return envelope.Error(fmt.Sprintf("Consulta de %s cancelada.", f.Subject(q))), string(kind)
		default:
			log.ErrorContext(ctx, "tool_unexpected_error", append(params(q), slog.Any("error", err))...)
			return unexpected(f, q), string(envelope.KindUnexpected)
		}
	}

	if table.Len() == 0 {
		return envelope.Error(f.Empty(q)), string(envelope.KindEmpty)
	}

	doc := envelope.NewDocument()
	if f.Header != nil {
		f.Header(q, doc)
	}
	doc.Set(f.DataKey, normalize.Records(table, f.Fields))

	out, err := envelope.Success(doc)
	if err != nil {
		log.ErrorContext(ctx, "tool_unexpected_error", append(params(q), slog.Any("error", err))...)
		return unexpected(f, q), string(envelope.KindUnexpected)
	}
	return out, OutcomeOK
}

// prepare resolves the indicator, fills in defaults and runs every input
// check. Nothing here touches the network.
func prepare[K any](r *Runner, f *Family[K], in Input) (Query[K], error) {
	q := Query[K]{Month: in.Month, Modality: in.Modality}

	name := in.Indicator
	if name == "" {
		name = f.DefaultIndicator
	}
	q.Indicator = name
	if f.Indicators != nil {
		canonical, key, err := f.Indicators.Resolve(name)
		if err != nil {
			return q, err
		}
		q.Indicator, q.Key = canonical, key
	}

	if f.Check != nil {
		if err := f.Check(&q); err != nil {
			return q, err
		}
	}

	if f.Window != nil {
		var start, end time.Time
		var err error
		if in.Start != "" {
			if start, err = validate.ParseDate(in.Start, "data_inicio"); err != nil {
				return q, err
			}
		}
		if in.End != "" {
			if end, err = validate.ParseDate(in.End, "data_fim"); err != nil {
				return q, err
			}
		} else {
			end = validate.Today(r.now())
		}
		if in.Start == "" {
			start = end.AddDate(0, 0, -f.Window.DefaultDays)
		}
		if err := validate.Range(start, end, f.Window.MaxDays); err != nil {
			return q, err
		}
		q.Start, q.End = start, end
	}

	if f.DefaultTop > 0 {
		q.Top = f.DefaultTop
		if in.Top != 0 {
			if err := validate.Top(in.Top); err != nil {
				return q, err
			}
			q.Top = in.Top
		}
	}
	return q, nil
}

func unexpected[K any](f *Family[K], q Query[K]) string {
	return envelope.Error(fmt.Sprintf("Erro inesperado ao consultar %s. Verifique os parâmetros.", f.Subject(q)))
}

func params[K any](q Query[K]) []any {
	attrs := []any{slog.String("indicator", q.Indicator)}
	if !q.Start.IsZero() {
		attrs = append(attrs,
			slog.String("data_inicio", q.Start.Format(validate.DateLayout)),
			slog.String("data_fim", q.End.Format(validate.DateLayout)))
	}
	if q.Top > 0 {
		attrs = append(attrs, slog.Int("top", q.Top))
	}
	if q.Month != "" {
		attrs = append(attrs, slog.String("mes", q.Month))
	}
	if q.Modality != "" {
		attrs = append(attrs, slog.String("modalidade", q.Modality))
	}
	return attrs
}

// periodo renders the {"inicio", "fim"} object of windowed tools.
func periodo[K any](q Query[K]) *envelope.Document {
	doc := envelope.NewDocument()
	doc.Set("inicio", q.Start.Format(validate.DateLayout))
	doc.Set("fim", q.End.Format(validate.DateLayout))
	return doc
}

package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
)

// Tool names as exposed to MCP clients.
const (
	ToolPTAX                    = "get_ptax"
	ToolSelic                   = "get_selic"
	ToolInflacao                = "get_inflacao"
	ToolAtividadeEconomica      = "get_atividade_economica"
	ToolExpectativasMercado     = "get_expectativas_mercado"
	ToolExpectativasMensais     = "get_expectativas_mensais"
	ToolExpectativasSelic       = "get_expectativas_selic"
	ToolExpectativasInflacao12m = "get_expectativas_inflacao12m"
	ToolExpectativasTop5        = "get_expectativas_top5"
	ToolTaxaJuros               = "get_taxa_juros"
)

// SeriesSource fetches SGS time series as a date-indexed table.
type SeriesSource interface {
	GetFrame(ctx context.Context, series []sgs.Series, start, end time.Time) (*provider.Table, error)
}

// ODataSource runs Olinda OData queries.
type ODataSource interface {
	Query(ctx context.Context, r olinda.Request) (*provider.Table, error)
}

// Service exposes every tool as a typed Go call returning its JSON envelope.
type Service struct {
	runner Runner

	ptax          *Family[struct{}]
	selic         *Family[struct{}]
	inflacao      *Family[int]
	atividade     *Family[int]
	anuais        *Family[string]
	mensais       *Family[string]
	selicReunioes *Family[string]
	inflacao12m   *Family[string]
	top5          *Family[string]
	taxaJuros     *Family[struct{}]
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the bounded wait applied to every provider call.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.runner.Timeout = timeout }
}

// WithClock sets the source of "today" for default windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.runner.Now = now }
}

// WithLogger sets the logger used for operator diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.runner.Logger = logger }
}

// WithRecorder sets where per-invocation outcomes are reported.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) { s.runner.Metrics = rec }
}

// NewService wires every tool family to its provider.
func NewService(series SeriesSource, odata ODataSource, options ...Option) *Service {
	s := &Service{
		ptax:          ptaxFamily(odata),
		selic:         selicFamily(series),
		inflacao:      inflacaoFamily(series),
		atividade:     atividadeFamily(series),
		anuais:        expectativasAnuaisFamily(odata),
		mensais:       expectativasMensaisFamily(odata),
		selicReunioes: expectativasSelicFamily(odata),
		inflacao12m:   expectativasInflacao12mFamily(odata),
		top5:          expectativasTop5Family(odata),
		taxaJuros:     taxaJurosFamily(odata),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// GetPTAX returns PTAX buy/sell quotes for a currency.
func (s *Service) GetPTAX(ctx context.Context, moeda, dataInicio, dataFim string) string {
	return Run(ctx, &s.runner, s.ptax, Input{Indicator: moeda, Start: dataInicio, End: dataFim})
}

// GetSelic returns the Selic target and effective rates.
func (s *Service) GetSelic(ctx context.Context, dataInicio, dataFim string) string {
	return Run(ctx, &s.runner, s.selic, Input{Start: dataInicio, End: dataFim})
}

// GetInflacao returns a monthly inflation index. The index name is
// case-insensitive.
func (s *Service) GetInflacao(ctx context.Context, indice, dataInicio, dataFim string) string {
	return Run(ctx, &s.runner, s.inflacao, Input{Indicator: indice, Start: dataInicio, End: dataFim})
}

// GetAtividadeEconomica returns an economic activity indicator.
func (s *Service) GetAtividadeEconomica(ctx context.Context, indicador, dataInicio, dataFim string) string {
	return Run(ctx, &s.runner, s.atividade, Input{Indicator: indicador, Start: dataInicio, End: dataFim})
}

// GetExpectativasMercado returns annual Focus survey expectations.
func (s *Service) GetExpectativasMercado(ctx context.Context, indicador string, top int) string {
	return Run(ctx, &s.runner, s.anuais, Input{Indicator: indicador, Top: top})
}

// GetExpectativasMensais returns monthly Focus survey expectations.
func (s *Service) GetExpectativasMensais(ctx context.Context, indicador string, top int) string {
	return Run(ctx, &s.runner, s.mensais, Input{Indicator: indicador, Top: top})
}

// GetExpectativasSelic returns Selic expectations per monetary policy meeting.
func (s *Service) GetExpectativasSelic(ctx context.Context, top int) string {
	return Run(ctx, &s.runner, s.selicReunioes, Input{Top: top})
}

// GetExpectativasInflacao12m returns 12-month-ahead inflation expectations.
func (s *Service) GetExpectativasInflacao12m(ctx context.Context, indicador string, top int) string {
	return Run(ctx, &s.runner, s.inflacao12m, Input{Indicator: indicador, Top: top})
}

// GetExpectativasTop5 returns annual expectations of the Top 5 forecasters.
func (s *Service) GetExpectativasTop5(ctx context.Context, indicador string, top int) string {
	return Run(ctx, &s.runner, s.top5, Input{Indicator: indicador, Top: top})
}

// GetTaxaJuros returns lending rates per institution for a month, optionally
// filtered by credit modality.
func (s *Service) GetTaxaJuros(ctx context.Context, mes, modalidade string, top int) string {
	return Run(ctx, &s.runner, s.taxaJuros, Input{Month: mes, Modality: modalidade, Top: top})
}

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jlagedo/capivara-mcp/internal/tools"
)

type definition struct {
	tool mcp.Tool
	call handler
}

const (
	descDataInicio = "Data inicial no formato YYYY-MM-DD (opcional)."
	descDataFim    = "Data final no formato YYYY-MM-DD (opcional, padrão: hoje)."
	descTop        = "Quantidade máxima de registros retornados (opcional)."

	// maxTop bounds the OData $top a caller may request.
	maxTop = 10000
)

// topParam declares the optional integer result limit.
func topParam(def int) mcp.ToolOption {
	return mcp.WithNumber("top",
		mcp.Description(fmt.Sprintf("%s Padrão: %d.", descTop, def)),
		mcp.Min(1),
		mcp.Max(maxTop),
		mcp.MultipleOf(1),
	)
}

func (s *Server) definitions() []definition {
	return []definition{
		{
			tool: mcp.NewTool(tools.ToolPTAX,
				mcp.WithDescription("Cotações PTAX de compra e venda de uma moeda em relação ao real. Padrão: USD nos últimos 30 dias. Período máximo de 365 dias."),
				mcp.WithString("moeda", mcp.Description("Código ISO da moeda, ex: USD, EUR, GBP (padrão: USD).")),
				mcp.WithString("data_inicio", mcp.Description(descDataInicio)),
				mcp.WithString("data_fim", mcp.Description(descDataFim)),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetPTAX(ctx, req.GetString("moeda", ""), req.GetString("data_inicio", ""), req.GetString("data_fim", ""))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolSelic,
				mcp.WithDescription("Taxa Selic meta e efetiva diária. Padrão: últimos 30 dias. Período máximo de 365 dias."),
				mcp.WithString("data_inicio", mcp.Description(descDataInicio)),
				mcp.WithString("data_fim", mcp.Description(descDataFim)),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetSelic(ctx, req.GetString("data_inicio", ""), req.GetString("data_fim", ""))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolInflacao,
				mcp.WithDescription("Variação mensal de índices de inflação. Padrão: IPCA nos últimos 12 meses. Período máximo de 5 anos."),
				mcp.WithString("indice", mcp.Description("IPCA, IGP-M, INPC, IGP-DI ou IPCA-15 (padrão: IPCA).")),
				mcp.WithString("data_inicio", mcp.Description(descDataInicio)),
				mcp.WithString("data_fim", mcp.Description(descDataFim)),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetInflacao(ctx, req.GetString("indice", ""), req.GetString("data_inicio", ""), req.GetString("data_fim", ""))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolAtividadeEconomica,
				mcp.WithDescription("Indicadores de atividade econômica e finanças públicas. Padrão: PIB mensal nos últimos 12 meses. Período máximo de 5 anos."),
				mcp.WithString("indicador", mcp.Description("PIB mensal, Dívida bruta/PIB ou Resultado primário (padrão: PIB mensal).")),
				mcp.WithString("data_inicio", mcp.Description(descDataInicio)),
				mcp.WithString("data_fim", mcp.Description(descDataFim)),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetAtividadeEconomica(ctx, req.GetString("indicador", ""), req.GetString("data_inicio", ""), req.GetString("data_fim", ""))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolExpectativasMercado,
				mcp.WithDescription("Expectativas anuais do Boletim Focus (mediana, média, mínimo e máximo), das pesquisas mais recentes."),
				mcp.WithString("indicador", mcp.Description("Indicador do Focus, ex: Selic, IPCA, PIB Total, Câmbio (padrão: Selic).")),
				topParam(5),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetExpectativasMercado(ctx, req.GetString("indicador", ""), req.GetInt("top", 0))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolExpectativasMensais,
				mcp.WithDescription("Expectativas mensais do Boletim Focus."),
				mcp.WithString("indicador", mcp.Description("Indicador mensal do Focus, ex: IPCA, IGP-M, Câmbio (padrão: IPCA).")),
				topParam(10),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetExpectativasMensais(ctx, req.GetString("indicador", ""), req.GetInt("top", 0))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolExpectativasSelic,
				mcp.WithDescription("Expectativas do Boletim Focus para a Selic em cada reunião do Copom."),
				topParam(10),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetExpectativasSelic(ctx, req.GetInt("top", 0))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolExpectativasInflacao12m,
				mcp.WithDescription("Expectativas de inflação acumulada para os próximos 12 meses."),
				mcp.WithString("indicador", mcp.Description("Índice de inflação, ex: IPCA, IGP-M, INPC (padrão: IPCA).")),
				topParam(10),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetExpectativasInflacao12m(ctx, req.GetString("indicador", ""), req.GetInt("top", 0))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolExpectativasTop5,
				mcp.WithDescription("Expectativas anuais das instituições Top 5 do Boletim Focus."),
				mcp.WithString("indicador", mcp.Description("IPCA, IGP-M, IGP-DI, Selic ou Câmbio (padrão: IPCA).")),
				topParam(10),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetExpectativasTop5(ctx, req.GetString("indicador", ""), req.GetInt("top", 0))
			},
		},
		{
			tool: mcp.NewTool(tools.ToolTaxaJuros,
				mcp.WithDescription("Taxas de juros mensais e anuais praticadas por instituição financeira, ordenadas da menor para a maior taxa anual."),
				mcp.WithString("mes", mcp.Required(), mcp.Description("Mês de referência no formato MMM-YYYY com inicial maiúscula, ex: Jan-2025.")),
				mcp.WithString("modalidade", mcp.Description("Modalidade de crédito, ex: CHEQUE ESPECIAL - PRÉ-FIXADO (opcional).")),
				topParam(20),
			),
			call: func(ctx context.Context, req mcp.CallToolRequest) string {
				return s.svc.GetTaxaJuros(ctx, req.GetString("mes", ""), req.GetString("modalidade", ""), req.GetInt("top", 0))
			},
		},
	}
}

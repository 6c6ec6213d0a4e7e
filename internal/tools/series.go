package tools

import (
	"context"
	"fmt"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
	"github.com/jlagedo/capivara-mcp/internal/registry"
)

const sgsAPI = "API SGS do BCB"

// SGS codes.
const (
	seriesSelicMeta     = 432
	seriesSelicEfetiva  = 11
	seriesIPCA          = 433
	seriesIGPM          = 189
	seriesINPC          = 188
	seriesIGPDI         = 190
	seriesIPCA15        = 7478
	seriesPIBMensal     = 4380
	seriesDividaBruta   = 4513
	seriesResultadoPrim = 5793
)

var (
	inflationIndices = registry.New(map[string]int{
		"IPCA":    seriesIPCA,
		"IGP-M":   seriesIGPM,
		"INPC":    seriesINPC,
		"IGP-DI":  seriesIGPDI,
		"IPCA-15": seriesIPCA15,
	}, registry.FoldCase(), registry.WithLabel("Índice"))

	activityIndicators = registry.New(map[string]int{
		"PIB mensal":         seriesPIBMensal,
		"Dívida bruta/PIB":   seriesDividaBruta,
		"Resultado primário": seriesResultadoPrim,
	})
)

func selicFamily(series SeriesSource) *Family[struct{}] {
	return &Family[struct{}]{
		Tool:    ToolSelic,
		Window:  &Window{DefaultDays: 30, MaxDays: 365},
		DataKey: "selic",
		API:     sgsAPI,
		Subject: func(Query[struct{}]) string { return "a Selic" },
		Header: func(q Query[struct{}], doc *envelope.Document) {
			doc.Set("periodo", periodo(q))
		},
		Empty: func(Query[struct{}]) string {
			return "Nenhum dado da Selic encontrado no período informado."
		},
		Fetch: func(ctx context.Context, q Query[struct{}]) (*provider.Table, error) {
			return series.GetFrame(ctx, []sgs.Series{
				{Label: "selic_meta", Code: seriesSelicMeta},
				{Label: "selic_efetiva", Code: seriesSelicEfetiva},
			}, q.Start, q.End)
		},
	}
}

func inflacaoFamily(series SeriesSource) *Family[int] {
	return &Family[int]{
		Tool:             ToolInflacao,
		Indicators:       inflationIndices,
		DefaultIndicator: "IPCA",
		Window:           &Window{DefaultDays: 365, MaxDays: 1825},
		DataKey:          "valores",
		API:              sgsAPI,
		Subject:          func(q Query[int]) string { return q.Indicator },
		Header: func(q Query[int], doc *envelope.Document) {
			doc.Set("indice", q.Indicator)
			doc.Set("periodo", periodo(q))
		},
		Empty: func(q Query[int]) string {
			return fmt.Sprintf("Nenhum dado de %s encontrado no período informado.", q.Indicator)
		},
		Fetch: singleSeries(series),
	}
}

func atividadeFamily(series SeriesSource) *Family[int] {
	return &Family[int]{
		Tool:             ToolAtividadeEconomica,
		Indicators:       activityIndicators,
		DefaultIndicator: "PIB mensal",
		Window:           &Window{DefaultDays: 365, MaxDays: 1825},
		DataKey:          "valores",
		API:              sgsAPI,
		Subject:          func(q Query[int]) string { return q.Indicator },
		Header: func(q Query[int], doc *envelope.Document) {
			doc.Set("indicador", q.Indicator)
			doc.Set("periodo", periodo(q))
		},
		Empty: func(q Query[int]) string {
			return fmt.Sprintf("Nenhum dado de %s encontrado no período informado.", q.Indicator)
		},
		Fetch: singleSeries(series),
	}
}

// singleSeries fetches the resolved code under the indicator's own name.
func singleSeries(series SeriesSource) func(context.Context, Query[int]) (*provider.Table, error) {
	return func(ctx context.Context, q Query[int]) (*provider.Table, error) {
		return series.GetFrame(ctx, []sgs.Series{{Label: q.Indicator, Code: q.Key}}, q.Start, q.End)
	}
}

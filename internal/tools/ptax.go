package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/validate"
)

// ptaxDateLayout is the MM-DD-YYYY format of the PTAX function parameters.
const ptaxDateLayout = "01-02-2006"

var ptaxFields = map[string]string{
	"cotacaoCompra":   "cotacao_compra",
	"cotacaoVenda":    "cotacao_venda",
	"dataHoraCotacao": "data_hora",
	"tipoBoletim":     "tipo_boletim",
}

func ptaxFamily(odata ODataSource) *Family[struct{}] {
	return &Family[struct{}]{
		Tool:             ToolPTAX,
		DefaultIndicator: "USD",
		Window:           &Window{DefaultDays: 30, MaxDays: 365},
		Fields:           ptaxFields,
		DataKey:          "cotacoes",
		API:              "API PTAX do BCB",
		Subject: func(q Query[struct{}]) string {
			return "cotações PTAX de " + q.Indicator
		},
		Header: func(q Query[struct{}], doc *envelope.Document) {
			doc.Set("moeda", q.Indicator)
			doc.Set("periodo", periodo(q))
		},
		Empty: func(q Query[struct{}]) string {
			return fmt.Sprintf("Nenhuma cotação encontrada para %s no período informado.", q.Indicator)
		},
		Check: func(q *Query[struct{}]) error {
			if err := validate.Currency(q.Indicator); err != nil {
				return err
			}
			q.Indicator = strings.ToUpper(q.Indicator)
			return nil
		},
		Fetch: func(ctx context.Context, q Query[struct{}]) (*provider.Table, error) {
			return odata.Query(ctx, olinda.Request{
				Service:  "PTAX",
				Version:  "v1",
				Resource: "CotacaoMoedaPeriodo",
				Params: []olinda.Param{
					{Name: "moeda", Value: q.Indicator},
					{Name: "dataInicial", Value: q.Start.Format(ptaxDateLayout)},
					{Name: "dataFinalCotacao", Value: q.End.Format(ptaxDateLayout)},
				},
				Select:   []string{"cotacaoCompra", "cotacaoVenda", "dataHoraCotacao", "tipoBoletim"},
				OrderBy:  "dataHoraCotacao asc",
				Temporal: []string{"dataHoraCotacao"},
			})
		},
	}
}

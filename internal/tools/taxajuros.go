package tools

import (
	"context"
	"fmt"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/validate"
)

var taxaJurosFields = map[string]string{
	"InstituicaoFinanceira": "instituicao",
	"Modalidade":            "modalidade",
	"Posicao":               "posicao",
	"TaxaJurosAoMes":        "taxa_mensal",
	"TaxaJurosAoAno":        "taxa_anual",
	"cnpj8":                 "cnpj8",
}

func taxaJurosFamily(odata ODataSource) *Family[struct{}] {
	return &Family[struct{}]{
		Tool:       ToolTaxaJuros,
		DefaultTop: 20,
		Fields:     taxaJurosFields,
		DataKey:    "taxas",
		API:        "API de Taxas de Juros do BCB",
		Subject: func(q Query[struct{}]) string {
			return "taxas de juros para " + q.Month
		},
		Header: func(q Query[struct{}], doc *envelope.Document) {
			doc.Set("mes", q.Month)
		},
		Empty: func(q Query[struct{}]) string {
			if q.Modality != "" {
				return fmt.Sprintf("Nenhuma taxa de juros encontrada para %s na modalidade '%s'.", q.Month, q.Modality)
			}
			return fmt.Sprintf("Nenhuma taxa de juros encontrada para %s.", q.Month)
		},
		Check: func(q *Query[struct{}]) error {
			return validate.Month(q.Month)
		},
		Fetch: func(ctx context.Context, q Query[struct{}]) (*provider.Table, error) {
			filter := "Mes eq " + olinda.Quote(q.Month)
			if q.Modality != "" {
				filter += " and Modalidade eq " + olinda.Quote(q.Modality)
			}
			return odata.Query(ctx, olinda.Request{
				Service:  "taxaJuros",
				Version:  "v2",
				Resource: "TaxasJurosMensalPorMes",
				Filter:   filter,
				OrderBy:  "TaxaJurosAoAno asc",
				Select:   []string{"InstituicaoFinanceira", "Modalidade", "Posicao", "TaxaJurosAoMes", "TaxaJurosAoAno", "cnpj8"},
				Top:      q.Top,
			})
		},
	}
}

package tools

import (
	"context"
	"fmt"

	"github.com/jlagedo/capivara-mcp/internal/envelope"
	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/registry"
)

var expectativasFields = map[string]string{
	"Indicador":      "indicador",
	"Data":           "data_pesquisa",
	"DataReferencia": "periodo_referencia",
	"Reuniao":        "reuniao",
	"Suavizada":      "suavizada",
	"tipoCalculo":    "tipo_calculo",
	"Media":          "media",
	"Mediana":        "mediana",
	"Minimo":         "minimo",
	"Maximo":         "maximo",
}

var (
	annualIndicators = names(
		"Balança comercial",
		"Câmbio",
		"Conta corrente",
		"Dívida bruta do governo geral",
		"Dívida líquida do setor público",
		"IGP-M",
		"Investimento direto no país",
		"IPCA",
		"IPCA Administrados",
		"IPCA Alimentação no domicílio",
		"IPCA Bens industrializados",
		"IPCA Livres",
		"IPCA Serviços",
		"PIB Agropecuária",
		"PIB Despesa de consumo da administração pública",
		"PIB Despesa de consumo das famílias",
		"PIB Exportação de bens e serviços",
		"PIB Formação Bruta de Capital Fixo",
		"PIB Importação de bens e serviços",
		"PIB Indústria",
		"PIB Serviços",
		"PIB Total",
		"Resultado nominal",
		"Resultado primário",
		"Selic",
		"Taxa de desocupação",
	)

	monthlyIndicators = names(
		"Câmbio",
		"IGP-DI",
		"IGP-M",
		"INPC",
		"IPA-DI",
		"IPA-M",
		"IPC-FIPE",
		"IPCA",
		"IPCA Administrados",
		"IPCA Alimentação no domicílio",
		"IPCA Bens industrializados",
		"IPCA Livres",
		"IPCA Serviços",
		"IPCA-15",
		"Taxa de desocupação",
	)

	inflation12mIndicators = names(
		"IGP-DI",
		"IGP-M",
		"INPC",
		"IPA-DI",
		"IPA-M",
		"IPCA",
		"IPCA-15",
		"IPC-FIPE",
	)

	top5Indicators = names(
		"Câmbio",
		"IGP-DI",
		"IGP-M",
		"IPCA",
		"Selic",
	)

	selicOnly = names("Selic")
)

// names builds a registry whose provider key is the name itself.
func names(list ...string) *registry.Registry[string] {
	entries := make(map[string]string, len(list))
	for _, n := range list {
		entries[n] = n
	}
	return registry.New(entries)
}

// survey is one Focus endpoint variant.
type survey struct {
	tool             string
	resource         string
	indicators       *registry.Registry[string]
	defaultIndicator string
	defaultTop       int
	// columns between Data and Media in the projection
	extra       []string
	baseCalculo bool
	header      func(q Query[string], doc *envelope.Document)
}

func expectativasFamily(odata ODataSource, s survey) *Family[string] {
	sel := append([]string{"Indicador", "Data"}, s.extra...)
	sel = append(sel, "Media", "Mediana", "Minimo", "Maximo")

	return &Family[string]{
		Tool:             s.tool,
		Indicators:       s.indicators,
		DefaultIndicator: s.defaultIndicator,
		DefaultTop:       s.defaultTop,
		Fields:           expectativasFields,
		DataKey:          "expectativas",
		API:              "API de Expectativas do BCB",
		Subject: func(q Query[string]) string {
			return "expectativas de " + q.Indicator
		},
		Header: s.header,
		Empty: func(q Query[string]) string {
			return fmt.Sprintf("Nenhuma expectativa encontrada para '%s'.", q.Indicator)
		},
		Fetch: func(ctx context.Context, q Query[string]) (*provider.Table, error) {
			filter := "Indicador eq " + olinda.Quote(q.Key)
			if s.baseCalculo {
				filter += " and baseCalculo eq 0"
			}
			return odata.Query(ctx, olinda.Request{
				Service:  "Expectativas",
				Version:  "v1",
				Resource: s.resource,
				Filter:   filter,
				OrderBy:  "Data desc",
				Select:   sel,
				Top:      q.Top,
				Temporal: []string{"Data"},
			})
		},
	}
}

func expectativasAnuaisFamily(odata ODataSource) *Family[string] {
	return expectativasFamily(odata, survey{
		tool:             ToolExpectativasMercado,
		resource:         "ExpectativasMercadoAnuais",
		indicators:       annualIndicators,
		defaultIndicator: "Selic",
		defaultTop:       5,
		extra:            []string{"DataReferencia"},
		baseCalculo:      true,
		header: func(q Query[string], doc *envelope.Document) {
			doc.Set("indicador", q.Indicator)
		},
	})
}

func expectativasMensaisFamily(odata ODataSource) *Family[string] {
	return expectativasFamily(odata, survey{
		tool:             ToolExpectativasMensais,
		resource:         "ExpectativaMercadoMensais",
		indicators:       monthlyIndicators,
		defaultIndicator: "IPCA",
		defaultTop:       10,
		extra:            []string{"DataReferencia"},
		baseCalculo:      true,
		header: func(q Query[string], doc *envelope.Document) {
			doc.Set("indicador", q.Indicator)
			doc.Set("frequencia", "mensal")
		},
	})
}

func expectativasSelicFamily(odata ODataSource) *Family[string] {
	return expectativasFamily(odata, survey{
		tool:             ToolExpectativasSelic,
		resource:         "ExpectativasMercadoSelic",
		indicators:       selicOnly,
		defaultIndicator: "Selic",
		defaultTop:       10,
		extra:            []string{"Reuniao"},
		baseCalculo:      true,
		header: func(q Query[string], doc *envelope.Document) {
			doc.Set("indicador", q.Indicator)
			doc.Set("frequencia", "por_reuniao")
		},
	})
}

func expectativasInflacao12mFamily(odata ODataSource) *Family[string] {
	return expectativasFamily(odata, survey{
		tool:             ToolExpectativasInflacao12m,
		resource:         "ExpectativasMercadoInflacao12Meses",
		indicators:       inflation12mIndicators,
		defaultIndicator: "IPCA",
		defaultTop:       10,
		extra:            []string{"Suavizada"},
		baseCalculo:      true,
		header: func(q Query[string], doc *envelope.Document) {
			doc.Set("indicador", q.Indicator)
			doc.Set("horizonte", "12_meses")
		},
	})
}

func expectativasTop5Family(odata ODataSource) *Family[string] {
	return expectativasFamily(odata, survey{
		tool:             ToolExpectativasTop5,
		resource:         "ExpectativasMercadoTop5Anuais",
		indicators:       top5Indicators,
		defaultIndicator: "IPCA",
		defaultTop:       10,
		extra:            []string{"DataReferencia", "tipoCalculo"},
		header: func(q Query[string], doc *envelope.Document) {
			doc.Set("indicador", q.Indicator)
			doc.Set("tipo", "top5_anual")
		},
	})
}

package tools_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/tools"
)

func TestGetTaxaJuros(t *testing.T) {
	t.Parallel()

	// Arrange
	tbl := provider.NewTable("InstituicaoFinanceira", "Modalidade", "Posicao", "TaxaJurosAoMes", "TaxaJurosAoAno", "cnpj8")
	tbl.Append("BANCO A", "CHEQUE ESPECIAL - PRÉ-FIXADO", 1.0, 1.2, 15.39, "00000000")
	tbl.Append("BANCO B", "CHEQUE ESPECIAL - PRÉ-FIXADO", 2.0, 1.5, 19.56, "00000208")
	odata := &fakeOData{table: tbl}
	svc := tools.NewService(&fakeSeries{}, odata)

	// Act
	out := svc.GetTaxaJuros(t.Context(), "Jan-2025", "CHEQUE ESPECIAL - PRÉ-FIXADO", 2)

	// Assert: payload
	doc := decode(t, out)
	require.Equal(t, "Jan-2025", doc["mes"])
	taxas := doc["taxas"].([]any)
	require.Len(t, taxas, 2)
	require.Equal(t, map[string]any{
		"instituicao": "BANCO A",
		"modalidade":  "CHEQUE ESPECIAL - PRÉ-FIXADO",
		"posicao":     1.0,
		"taxa_mensal": 1.2,
		"taxa_anual":  15.39,
		"cnpj8":       "00000000",
	}, taxas[0])

	// Assert: query
	req := odata.Requests()[0]
	require.Equal(t, "taxaJuros", req.Service)
	require.Equal(t, "v2", req.Version)
	require.Equal(t, "TaxasJurosMensalPorMes", req.Resource)
	require.Equal(t, "Mes eq 'Jan-2025' and Modalidade eq 'CHEQUE ESPECIAL - PRÉ-FIXADO'", req.Filter)
	require.Equal(t, "TaxaJurosAoAno asc", req.OrderBy)
	require.Equal(t, 2, req.Top)
}

func TestGetTaxaJuros_LowercaseMonthRejectedWithoutFetch(t *testing.T) {
	t.Parallel()

	odata := &fakeOData{}
	svc := tools.NewService(&fakeSeries{}, odata)

	msg := erro(t, svc.GetTaxaJuros(t.Context(), "jan-2025", "", 0))

	require.Equal(t, "Formato de mês inválido: 'jan-2025'. Use o formato 'MMM-YYYY' (ex: 'Jan-2025').", msg)
	require.Empty(t, odata.Requests())
}

func TestGetTaxaJuros_Defaults(t *testing.T) {
	t.Parallel()

	odata := &fakeOData{table: provider.NewTable("InstituicaoFinanceira")}
	svc := tools.NewService(&fakeSeries{}, odata)

	svc.GetTaxaJuros(t.Context(), "Fev-2025", "", 0)

	req := odata.Requests()[0]
	require.Equal(t, 20, req.Top)
	require.Equal(t, "Mes eq 'Fev-2025'", req.Filter)
}

func TestGetTaxaJuros_Empty(t *testing.T) {
	t.Parallel()

	svc := tools.NewService(&fakeSeries{}, &fakeOData{table: provider.NewTable("InstituicaoFinanceira")})

	require.Equal(t, "Nenhuma taxa de juros encontrada para Mar-2025.",
		erro(t, svc.GetTaxaJuros(t.Context(), "Mar-2025", "", 0)))
	require.Equal(t, "Nenhuma taxa de juros encontrada para Mar-2025 na modalidade 'LEASING'.",
		erro(t, svc.GetTaxaJuros(t.Context(), "Mar-2025", "LEASING", 0)))
}

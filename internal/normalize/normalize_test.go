package normalize_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jlagedo/capivara-mcp/internal/normalize"
	"github.com/jlagedo/capivara-mcp/internal/provider"
)

func keys(r *normalize.Record) []string {
	var out []string
	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestRecords_RenamesAndFormatsDates(t *testing.T) {
	t.Parallel()

	// Arrange: a daily expectations table with an unmapped column
	tbl := provider.NewTable("Indicador", "Data", "DataReferencia", "Mediana", "baseCalculo")
	tbl.Append("Selic", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), "2025", 15.0, 0.0)
	tbl.Append("Selic", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), "2025", 14.75, 0.0)
	fields := map[string]string{
		"Indicador":      "indicador",
		"Data":           "data_pesquisa",
		"DataReferencia": "periodo_referencia",
		"Mediana":        "mediana",
		"Minimo":         "minimo",
	}

	// Act
	recs := normalize.Records(tbl, fields)

	// Assert: order kept, absent map entries ignored, unmapped passes through
	require.Len(t, recs, 2)
	require.Equal(t, []string{"indicador", "data_pesquisa", "periodo_referencia", "mediana", "baseCalculo"}, keys(recs[0]))
	got, _ := recs[0].Get("data_pesquisa")
	require.Equal(t, "2025-01-03", got)
	got, _ = recs[1].Get("mediana")
	require.InEpsilon(t, 14.75, got, 0.0001)
}

func TestRecords_TimestampColumn(t *testing.T) {
	t.Parallel()

	// Arrange: one intraday value makes the whole column a timestamp
	tbl := provider.NewTable("dataHoraCotacao", "cotacaoVenda")
	tbl.Append(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), 6.2)
	tbl.Append(time.Date(2025, 1, 3, 13, 4, 27, 363000000, time.UTC), 6.1)

	// Act
	recs := normalize.Records(tbl, map[string]string{"dataHoraCotacao": "data_hora"})

	// Assert
	first, _ := recs[0].Get("data_hora")
	second, _ := recs[1].Get("data_hora")
	require.Equal(t, "2025-01-02 00:00:00", first)
	require.Equal(t, "2025-01-03 13:04:27", second)
}

func TestRecords_MidnightColumnRendersAsDate(t *testing.T) {
	t.Parallel()

	tbl := provider.NewTable("data", "IPCA")
	tbl.Append(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0.42)
	tbl.Append(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), nil)

	recs := normalize.Records(tbl, nil)

	out, err := json.Marshal(recs)
	require.NoError(t, err)
	require.JSONEq(t, `[{"data":"2024-01-01","IPCA":0.42},{"data":"2024-02-01","IPCA":null}]`, string(out))
}

func TestRecords_NonFiniteBecomesNull(t *testing.T) {
	t.Parallel()

	tbl := provider.NewTable("v")
	tbl.Append(math.NaN())
	tbl.Append(math.Inf(1))

	recs := normalize.Records(tbl, nil)

	out, err := json.Marshal(recs)
	require.NoError(t, err)
	require.JSONEq(t, `[{"v":null},{"v":null}]`, string(out))
}

func TestRecords_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, normalize.Records(nil, nil))
	require.Empty(t, normalize.Records(provider.NewTable("data"), nil))

	out, err := json.Marshal(normalize.Records(nil, nil))
	require.NoError(t, err)
	require.Equal(t, "[]", string(out))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	midnight := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, normalize.Date, normalize.Detect(nil))
	require.Equal(t, normalize.Date, normalize.Detect([]time.Time{midnight, midnight.AddDate(0, 0, 1)}))
	require.Equal(t, normalize.Timestamp, normalize.Detect([]time.Time{midnight, midnight.Add(time.Nanosecond)}))
	require.Equal(t, "2006-01-02", normalize.Date.Layout())
	require.Equal(t, "2006-01-02 15:04:05", normalize.Timestamp.Layout())
}

func TestRename(t *testing.T) {
	t.Parallel()

	got := normalize.Rename([]string{"a", "b"}, map[string]string{"b": "B", "z": "Z"})
	require.Equal(t, []string{"a", "B"}, got)
}

package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlagedo/capivara-mcp/internal/registry"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	// Arrange
	r := registry.New(map[string]int{"Selic": 432, "IPCA": 433})

	// Act
	name, code, err := r.Resolve("IPCA")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "IPCA", name)
	require.Equal(t, 433, code)
}

func TestResolve_UnknownListsSortedNames(t *testing.T) {
	t.Parallel()

	// Arrange
	r := registry.New(map[string]string{"Selic": "Selic", "IPCA": "IPCA", "Câmbio": "Câmbio", "IGP-M": "IGP-M"})

	// Act
	_, _, err := r.Resolve("FOOBAR")

	// Assert
	require.EqualError(t, err, "Indicador 'FOOBAR' não suportado. Use: Câmbio, IGP-M, IPCA, Selic.")
}

func TestResolve_CaseSensitiveByDefault(t *testing.T) {
	t.Parallel()

	r := registry.New(map[string]int{"Selic": 432})

	_, _, err := r.Resolve("selic")
	require.Error(t, err)
}

func TestResolve_FoldCase(t *testing.T) {
	t.Parallel()

	// Arrange
	r := registry.New(map[string]int{"IPCA": 433, "IGP-M": 189}, registry.FoldCase(), registry.WithLabel("Índice"))

	// Act
	name, code, err := r.Resolve("igp-m")

	// Assert: canonical spelling is reported
	require.NoError(t, err)
	require.Equal(t, "IGP-M", name)
	require.Equal(t, 189, code)

	// Assert: rejection uses the configured label
	_, _, err = r.Resolve("xyz")
	require.EqualError(t, err, "Índice 'xyz' não suportado. Use: IGP-M, IPCA.")
}

func TestResolve_Concurrent(t *testing.T) {
	t.Parallel()

	r := registry.New(map[string]int{"IPCA": 433, "INPC": 188}, registry.FoldCase())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, code, err := r.Resolve("inpc")
			require.NoError(t, err)
			require.Equal(t, 188, code)
		}()
	}
	wg.Wait()
}

package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDateTimeValue(t *testing.T) {
	cases := map[string]string{
		"2024-01-01T10:30":    "2024-01-01T10:30:00",
		"":                    "",
		"   ":                 "",
		"2024-01-01T10:30:15": "2024-01-01T10:30:15",
		" 2024-01-01T10:30 ":  "2024-01-01T10:30:00",
		"2024-01-01":          "2024-01-01",
	}
	for in, want := range cases {
		require.Equal(t, want, DateTimeValue(in), "input %q", in)
	}
}

func TestSupplierFilterNameWins(t *testing.T) {
	q := SupplierFilter{Name: "A", City: "B", ActiveOnly: true}.Query()
	require.Equal(t, "nombre=A", q.Encode())
}

func TestSupplierFilterCityAndActive(t *testing.T) {
	q := SupplierFilter{City: "Ibagué", ActiveOnly: true}.Query()
	require.Equal(t, "ciudad=Ibagu%C3%A9&activo=true", q.Encode())

	require.Empty(t, SupplierFilter{}.Query())
	require.Equal(t, "activo=true", SupplierFilter{ActiveOnly: true}.Query().Encode())
}

func TestSeedFilterKeepsOrderAndNormalizesDates(t *testing.T) {
	q := SeedFilter{
		Type:           "hortaliza",
		MinGermination: "80",
		From:           "2024-01-01T00:00",
		To:             "2024-02-01T23:59:59",
	}.Query()
	require.Equal(t, "tipo=hortaliza&germinacionMin=80&desde=2024-01-01T00%3A00%3A00&hasta=2024-02-01T23%3A59%3A59", q.Encode())
	require.Equal(t, "80", q.Get("germinacionMin"))
	require.Equal(t, "", q.Get("missing"))
}

func TestSeedFilterSkipsBlank(t *testing.T) {
	q := SeedFilter{Type: "  ", To: "2024-02-01T10:00"}.Query()
	require.Equal(t, Query{{Key: "hasta", Value: "2024-02-01T10:00:00"}}, q)
}

func TestSeedPayloadFieldNames(t *testing.T) {
	price := 12.5
	stock := int64(3)
	data, err := json.Marshal(Seed{Code: "S1", Price: &price, Stock: &stock})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"codigo":"S1","nombre":"","precio":12.5,"stock":3,"tipoSemilla":"",
		"porcentajeGerminacion":null,"proveedorNit":"","fechaIngreso":""
	}`, string(data))
}

package tabular_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/tabular"
)

const baseOriginal = `Loja,Código Produto,Produto,Embal,Quantidade Disponível,Qtd. Pend. Ped.Compra,Média Vda/Dia,Cto. Bruto Unitário,Comprador
01,789,Arroz 5kg,FD,500,20,5,12.5,ANA
02,789,Arroz 5kg,FD,100,,10,abc,
`

func TestReadCSV_EncabezadosOriginales(t *testing.T) {
	rows, err := tabular.ReadCSV(strings.NewReader(baseOriginal))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, "01", r.Store)
	assert.Equal(t, "789", r.ProductCode)
	assert.Equal(t, "Arroz 5kg", r.ProductName)
	assert.Equal(t, "FD", r.PackUnit)
	assert.Equal(t, "500", r.Available.String())
	assert.Equal(t, "20", r.PendingPO.String())
	assert.Equal(t, "5", r.AvgDailySales.String())
	assert.Equal(t, "12.5", r.UnitCost.String())
	assert.Equal(t, "ANA", r.Buyer)

	// Celda vacía y no numérica valen 0; comprador vacío es "N/A".
	assert.True(t, rows[1].PendingPO.IsZero())
	assert.True(t, rows[1].UnitCost.IsZero())
	assert.Equal(t, entity.DefaultBuyer, rows[1].Buyer)
}

func TestReadCSV_EncabezadosEnIngles(t *testing.T) {
	in := "store,product code,available quantity,average daily sales\nA,P1,10,1\n"
	rows, err := tabular.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Store)
	assert.Equal(t, "10", rows[0].Available.String())
	// Columnas numéricas ausentes → 0.
	assert.True(t, rows[0].PendingPO.IsZero())
	assert.True(t, rows[0].UnitCost.IsZero())
	assert.Equal(t, entity.DefaultBuyer, rows[0].Buyer)
}

func TestReadCSV_Windows1252ConPuntoYComa(t *testing.T) {
	var in []byte
	in = append(in, []byte("Loja;C\xf3digo Produto;Quantidade Dispon\xedvel;M\xe9dia Vda/Dia\n")...)
	in = append(in, []byte("A;P1;1.234,5;0,25\n")...)

	rows, err := tabular.ReadCSV(bytes.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1234.5", rows[0].Available.String())
	assert.Equal(t, "0.25", rows[0].AvgDailySales.String())
}

func TestReadCSV_ConBOM(t *testing.T) {
	in := "\xef\xbb\xbfLoja,Código Produto\nA,P1\n"
	rows, err := tabular.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Store)
}

func TestReadCSV_SinColumnaTienda(t *testing.T) {
	_, err := tabular.ReadCSV(strings.NewReader("Código Produto,Quantidade Disponível\nP1,10\n"))
	assert.ErrorIs(t, err, domain.ErrMissingStoreColumn)
}

func TestReadCSV_SinColumnaProducto(t *testing.T) {
	_, err := tabular.ReadCSV(strings.NewReader("Loja,Quantidade Disponível\nA,10\n"))
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestReadCSV_FilaSinTienda(t *testing.T) {
	_, err := tabular.ReadCSV(strings.NewReader("Loja,Código Produto\nA,P1\n,P2\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 3")
}

func TestReadCSV_CantidadFueraDeRango(t *testing.T) {
	_, err := tabular.ReadCSV(strings.NewReader("Loja,Código Produto,Quantidade Disponível\nA,P1,10\nA,P2,1e19\n"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 3")
}

func TestReadCSV_IgnoraFilasVacias(t *testing.T) {
	rows, err := tabular.ReadCSV(strings.NewReader("Loja,Código Produto\nA,P1\n,\nB,P1\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadCSV_Vacio(t *testing.T) {
	_, err := tabular.ReadCSV(strings.NewReader("  \n"))
	assert.ErrorIs(t, err, domain.ErrEmptySnapshot)
}

func TestParseNumber(t *testing.T) {
	cases := map[string]string{
		"":         "0",
		"abc":      "0",
		"10":       "10",
		"10.5":     "10.5",
		"10,5":     "10.5",
		"1.234,56": "1234.56",
		"1,234.56": "1234.56",
		" 7 ":      "7",
		"-3":       "-3",
		"1 000,25": "1000.25",
	}
	for in, expected := range cases {
		assert.Equal(t, expected, tabular.ParseNumber(in).String(), "entrada %q", in)
	}
}

func TestParseCells(t *testing.T) {
	values := [][]interface{}{
		{"Loja", "Código Produto", "Média Vda/Dia"},
		{"A", "P1", 2.5},
		{"B", "P1"},
	}
	rows, err := tabular.ParseCells(values)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2.5", rows[0].AvgDailySales.String())
	assert.True(t, rows[1].AvgDailySales.IsZero())
}

func TestWriteTemplateCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tabular.WriteTemplateCSV(&buf))

	assert.True(t, strings.HasPrefix(buf.String(), "Loja,Código Produto,Produto,Embal,"))

	rows, err := tabular.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

package sheets

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/jhoicas/Rateio-api/internal/domain"
)

type fakeReader struct {
	ranges map[string][][]interface{}
	titles []string
	err    error
	asked  string
}

func (f *fakeReader) ReadRange(_ context.Context, a1 string) ([][]interface{}, error) {
	f.asked = a1
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.ranges[a1]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: " + a1}
	}
	return v, nil
}

func (f *fakeReader) SheetTitles(_ context.Context) ([]string, error) {
	return f.titles, f.err
}

var header = []interface{}{"Loja", "Código Produto", "Produto", "Embal", "Quantidade Disponível",
	"Qtd. Pend. Ped.Compra", "Média Vda/Dia", "Cto. Bruto Unitário", "Comprador"}

func TestLoad_PestanaConNumerosSinFormato(t *testing.T) {
	fr := &fakeReader{ranges: map[string][][]interface{}{
		"'Semana 42'!A:I": {
			header,
			{"L01", "P1", "Arroz", "UN", float64(1500), float64(0), 2.5, 3.1, "ANA"},
			{"L02", "P1", "Arroz", "UN", float64(20), nil, float64(4)},
		},
	}}
	repo := newSnapshotRepo(fr, "", nil)

	rows, err := repo.Load(context.Background(), "Semana 42")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "L01", rows[0].Store)
	assert.Equal(t, "1500", rows[0].Available.String())
	assert.Equal(t, "2.5", rows[0].AvgDailySales.String())
	assert.Equal(t, "3.1", rows[0].UnitCost.String())
	assert.Equal(t, "ANA", rows[0].Buyer)

	assert.Equal(t, "0", rows[1].PendingPO.String())
	assert.Equal(t, "0", rows[1].UnitCost.String())
	assert.Equal(t, "N/A", rows[1].Buyer)
}

func TestLoad_RangoA1Explicito(t *testing.T) {
	fr := &fakeReader{ranges: map[string][][]interface{}{
		"Base!A1:I3": {header, {"L01", "P1"}},
	}}
	repo := newSnapshotRepo(fr, "A:I", nil)

	rows, err := repo.Load(context.Background(), "Base!A1:I3")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Base!A1:I3", fr.asked)
}

func TestLoad_PestanaInexistente(t *testing.T) {
	repo := newSnapshotRepo(&fakeReader{}, "A:I", nil)

	_, err := repo.Load(context.Background(), "No existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_SinColumnaTienda(t *testing.T) {
	fr := &fakeReader{ranges: map[string][][]interface{}{
		"'B'!A:I": {{"Produto", "Código Produto"}, {"Arroz", "P1"}},
	}}
	repo := newSnapshotRepo(fr, "A:I", nil)

	_, err := repo.Load(context.Background(), "B")
	assert.ErrorIs(t, err, domain.ErrMissingStoreColumn)
}

func TestRangeFor_EscapaComillas(t *testing.T) {
	repo := newSnapshotRepo(&fakeReader{}, "A:I", nil)
	assert.Equal(t, "'D''Ávila'!A:I", repo.rangeFor("D'Ávila"))
}

func TestList(t *testing.T) {
	repo := newSnapshotRepo(&fakeReader{titles: []string{"Semana 41", "Semana 42"}}, "A:I", nil)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Semana 42", list[1].ID)
	assert.Nil(t, list[1].CreatedAt)
}

func TestList_PlanillaNoEncontrada(t *testing.T) {
	repo := newSnapshotRepo(&fakeReader{err: &googleapi.Error{Code: http.StatusNotFound}}, "A:I", nil)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

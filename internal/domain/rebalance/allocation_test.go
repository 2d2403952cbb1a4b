package rebalance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/domain/rebalance"
)

func release(index int, store string, qty int64) rebalance.ReleaseCandidate {
	return rebalance.ReleaseCandidate{Index: index, Store: store, ProductCode: "P", Releasable: qty}
}

func need(index int, store string, qty int64) rebalance.NeedCandidate {
	return rebalance.NeedCandidate{Index: index, Store: store, ProductCode: "P", Needed: qty}
}

type move struct {
	from, to string
	qty      int64
}

func moves(transfers []entity.Transfer) []move {
	out := make([]move, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, move{from: t.SourceStore, to: t.DestinationStore, qty: t.Quantity})
	}
	return out
}

// Escenario B: [Z(400), X(200)] cubren exactamente la necesidad de 500 de Y.
func TestAllocate_EscenarioB(t *testing.T) {
	releases := []rebalance.ReleaseCandidate{release(0, "X", 200), release(1, "Z", 400)}
	needs := []rebalance.NeedCandidate{need(2, "Y", 500)}

	got := rebalance.Allocate(releases, needs, 10, nil)
	assert.Equal(t, []move{{"Z", "Y", 400}, {"X", "Y", 100}}, moves(got))

	// Los candidatos recibidos no se modifican.
	assert.Equal(t, int64(200), releases[0].Releasable)
	assert.Equal(t, int64(400), releases[1].Releasable)
}

// Escenario C: saldo 5 frente a necesidad 5 con min_move 10 → no hay traslado.
func TestAllocate_EscenarioC_BajoMinMove(t *testing.T) {
	got := rebalance.Allocate(
		[]rebalance.ReleaseCandidate{release(0, "X", 5)},
		[]rebalance.NeedCandidate{need(1, "Y", 5)},
		10, nil,
	)
	assert.Empty(t, got)
}

func TestAllocate_SaldoSaltadoNoSeReintenta(t *testing.T) {
	releases := []rebalance.ReleaseCandidate{release(0, "A", 30), release(1, "B", 8)}
	needs := []rebalance.NeedCandidate{need(2, "Y", 35)}

	got := rebalance.Allocate(releases, needs, 10, nil)
	assert.Equal(t, []move{{"A", "Y", 30}}, moves(got))
}

func TestAllocate_SaldoCompartidoEntreDestinos(t *testing.T) {
	releases := []rebalance.ReleaseCandidate{release(0, "A", 100)}
	needs := []rebalance.NeedCandidate{need(1, "W", 50), need(2, "Y", 60)}

	got := rebalance.Allocate(releases, needs, 10, nil)
	// Y (60) va primero por ser la mayor necesidad; W recibe el saldo restante.
	assert.Equal(t, []move{{"A", "Y", 60}, {"A", "W", 40}}, moves(got))
}

func TestAllocate_EmpatePorOrdenDeLaBase(t *testing.T) {
	needs := []rebalance.NeedCandidate{need(5, "Y", 50)}

	got := rebalance.Allocate([]rebalance.ReleaseCandidate{release(0, "A", 50), release(1, "B", 50)}, needs, 10, nil)
	assert.Equal(t, []move{{"A", "Y", 50}}, moves(got))

	got = rebalance.Allocate([]rebalance.ReleaseCandidate{release(0, "B", 50), release(1, "A", 50)}, needs, 10, nil)
	assert.Equal(t, []move{{"B", "Y", 50}}, moves(got))
}

func TestAllocate_ProductosIndependientes(t *testing.T) {
	releases := []rebalance.ReleaseCandidate{
		{Index: 0, Store: "A", ProductCode: "P2", Releasable: 20},
		{Index: 1, Store: "A", ProductCode: "P1", Releasable: 20},
		{Index: 2, Store: "A", ProductCode: "P3", Releasable: 20}, // sin necesidad
	}
	needs := []rebalance.NeedCandidate{
		{Index: 3, Store: "Y", ProductCode: "P1", Needed: 10},
		{Index: 4, Store: "Y", ProductCode: "P2", Needed: 15},
		{Index: 5, Store: "Y", ProductCode: "P4", Needed: 15}, // sin liberado
	}

	got := rebalance.Allocate(releases, needs, 1, nil)
	require.Len(t, got, 2)
	// Orden de productos: primera aparición entre los liberados.
	assert.Equal(t, "P2", got[0].ProductCode)
	assert.Equal(t, int64(15), got[0].Quantity)
	assert.Equal(t, "P1", got[1].ProductCode)
	assert.Equal(t, int64(10), got[1].Quantity)
}

func TestAllocate_FotoDeLaTiendaDestino(t *testing.T) {
	rows := []entity.InventoryRow{row("X", "P", 500, 5), row("Y", "P", 100, 10)}
	p := rebalance.Params{MinDaysOut: 60, TargetDaysIn: 60, MinMove: 10}
	ix := rebalance.NewSnapshotIndex(rows)

	releases, err := rebalance.BuildReleaseCandidates(rows, []string{"X"}, p)
	require.NoError(t, err)
	needs, err := rebalance.BuildNeedCandidates(rows, []string{"Y"}, p)
	require.NoError(t, err)

	got := rebalance.Allocate(releases, needs, p.MinMove, ix)
	require.Len(t, got, 1)
	assert.Equal(t, "Produto P", got[0].ProductName)
	assert.Equal(t, "CX", got[0].PackUnit)
	assert.Equal(t, "100", got[0].DestinationStock.String())
	assert.Equal(t, "600", got[0].DestinationTargetStock.String())
}

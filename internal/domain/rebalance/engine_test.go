package rebalance_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/domain/rebalance"
)

var scenarioParams = rebalance.Params{MinDaysOut: 60, TargetDaysIn: 60, MinMove: 10}

func TestRun_EscenarioA_PaConDeficitSeDescarta(t *testing.T) {
	rows := []entity.InventoryRow{row("X", "P1", 500, 5), row("Y", "P1", 100, 10)}

	res, err := rebalance.Run(rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X"}, Incoming: []string{"Y"}})
	require.NoError(t, err)
	assert.Empty(t, res.Transfers)
	assert.Equal(t, 1, res.Stats.RawTransfers)
	assert.Equal(t, 1, res.Stats.DroppedPairs)
	assert.Empty(t, res.Rollups.ByBuyer.Rows)

	require.Len(t, res.Outgoing, 1)
	assert.Equal(t, int64(0), res.Outgoing[0].Transferred)
	require.Len(t, res.Incoming, 1)
	assert.False(t, res.Incoming[0].Fulfilled)
}

func TestRun_EscenarioB(t *testing.T) {
	rows := []entity.InventoryRow{
		costed(row("X", "P1", 500, 5), 2, "ANA"),
		costed(row("Z", "P1", 700, 5), 3, "BETO"),
		costed(row("Y", "P1", 100, 10), 99, "CARLA"),
	}

	res, err := rebalance.Run(rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X", "Z"}, Incoming: []string{"Y"}})
	require.NoError(t, err)
	assert.Equal(t, []move{{"Z", "Y", 400}, {"X", "Y", 100}}, moves(res.Transfers))

	// Valor con costo del origen: 400*3 + 100*2.
	assert.Equal(t, "1200", res.Transfers[0].Value.String())
	assert.Equal(t, "200", res.Transfers[1].Value.String())
	assert.Equal(t, "1400", res.Stats.TotalValue.String())
	assert.Equal(t, int64(500), res.Stats.TotalQuantity)

	require.Len(t, res.Rollups.ByDestinationStore.Rows, 1)
	assert.Equal(t, "Y", res.Rollups.ByDestinationStore.Rows[0].Key)
	assert.Equal(t, "1400", res.Rollups.ByDestinationStore.Total.String())

	require.Len(t, res.Incoming, 1)
	assert.True(t, res.Incoming[0].Fulfilled)
	assert.Equal(t, int64(500), res.Incoming[0].Received)

	require.Len(t, res.Outgoing, 2)
	x := res.Outgoing[0]
	assert.Equal(t, "X", x.Store)
	assert.Equal(t, int64(100), x.Transferred)
	assert.Equal(t, "400", x.StockAfter.String())
	require.NotNil(t, x.DaysOfStock)
	assert.Equal(t, "100", x.DaysOfStock.String())
	require.NotNil(t, x.DaysOfStockAfter)
	assert.Equal(t, "80", x.DaysOfStockAfter.String())
}

func TestRun_EscenarioC_SaldoRestanteBajoMinMove(t *testing.T) {
	rows := []entity.InventoryRow{
		row("X", "P", 15, 0), // libera 15
		row("W", "P", 0, 1),  // necesita 10
		row("Y", "P", 0, 1),  // necesita 10, empate: va después de W
	}
	p := rebalance.Params{MinDaysOut: 0, TargetDaysIn: 10, MinMove: 10}

	res, err := rebalance.Run(rows, p, rebalance.StoreSelection{Outgoing: []string{"X"}, Incoming: []string{"W", "Y"}})
	require.NoError(t, err)
	assert.Equal(t, []move{{"X", "W", 10}}, moves(res.Transfers))
}

func TestRun_DiasDeStockIndefinidosSinVenta(t *testing.T) {
	rows := []entity.InventoryRow{row("X", "P", 50, 0), row("Y", "P", 0, 2)}
	p := rebalance.Params{TargetDaysIn: 10, MinMove: 1}

	res, err := rebalance.Run(rows, p, rebalance.StoreSelection{Outgoing: []string{"X"}, Incoming: []string{"Y"}})
	require.NoError(t, err)
	require.Len(t, res.Outgoing, 1)
	assert.Nil(t, res.Outgoing[0].DaysOfStock)
	assert.Nil(t, res.Outgoing[0].DaysOfStockAfter)
	assert.Equal(t, int64(20), res.Outgoing[0].Transferred)
}

func TestRun_Errores(t *testing.T) {
	rows := []entity.InventoryRow{row("X", "P", 500, 5), row("Y", "P", 100, 10)}
	sel := rebalance.StoreSelection{Outgoing: []string{"X"}, Incoming: []string{"Y"}}

	cases := []struct {
		name   string
		rows   []entity.InventoryRow
		params rebalance.Params
		sel    rebalance.StoreSelection
		err    error
	}{
		{"base vacía", nil, scenarioParams, sel, domain.ErrEmptySnapshot},
		{"parámetro negativo", rows, rebalance.Params{MinMove: -1}, sel, domain.ErrInvalidParams},
		{"sin tiendas de salida", rows, scenarioParams, rebalance.StoreSelection{Incoming: []string{"Y"}}, domain.ErrEmptyStoreSet},
		{"sin tiendas de entrada", rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X"}}, domain.ErrEmptyStoreSet},
		{"tienda en ambos conjuntos", rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X", "Y"}, Incoming: []string{"Y"}}, domain.ErrStoreInBothSets},
		{"tienda desconocida", rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X"}, Incoming: []string{"Q"}}, domain.ErrUnknownStore},
		{"sin liberado", rows, rebalance.Params{MinDaysOut: 200, TargetDaysIn: 60, MinMove: 10}, sel, domain.ErrNoOutgoingEligibility},
		{"sin necesidad", rows, rebalance.Params{MinDaysOut: 60, TargetDaysIn: 1, MinMove: 10}, sel, domain.ErrNoIncomingEligibility},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := rebalance.Run(tc.rows, tc.params, tc.sel)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, res)
		})
	}
}

func TestRun_NoModificaLaBase(t *testing.T) {
	rows := []entity.InventoryRow{row("X", "P1", 500, 5), row("Z", "P1", 700, 5), row("Y", "P1", 100, 10)}
	before := make([]entity.InventoryRow, len(rows))
	copy(before, rows)

	_, err := rebalance.Run(rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X", "Z"}, Incoming: []string{"Y"}})
	require.NoError(t, err)
	assert.Equal(t, before, rows)
}

// randomSnapshot genera una base reproducible con 3 tiendas de salida y 3 de entrada.
func randomSnapshot(seed int64) []entity.InventoryRow {
	rng := rand.New(rand.NewSource(seed))
	stores := []string{"S1", "S2", "S3", "E1", "E2", "E3"}
	products := []string{"P1", "P2", "P3", "P4", "P5"}
	var rows []entity.InventoryRow
	for _, s := range stores {
		maxStock := int64(500)
		if s[0] == 'E' {
			maxStock = 100
		}
		for _, p := range products {
			rows = append(rows, entity.InventoryRow{
				Store:         s,
				ProductCode:   p,
				Available:     decimal.NewFromInt(rng.Int63n(maxStock)),
				PendingPO:     decimal.NewFromInt(rng.Int63n(50)),
				AvgDailySales: decimal.New(rng.Int63n(100), -1),
				UnitCost:      decimal.New(rng.Int63n(10000), -2),
				Buyer:         []string{"ANA", "BETO"}[rng.Intn(2)],
			})
		}
	}
	return rows
}

func TestRun_Propiedades(t *testing.T) {
	p := rebalance.Params{MinDaysOut: 20, TargetDaysIn: 40, MinMove: 5, IncludePendingPO: true}
	sel := rebalance.StoreSelection{Outgoing: []string{"S1", "S2", "S3"}, Incoming: []string{"E1", "E2", "E3"}}

	for seed := int64(1); seed <= 20; seed++ {
		rows := randomSnapshot(seed)

		for _, r := range rows {
			rel, err := rebalance.ComputeReleasable(r, p)
			require.NoError(t, err)
			assert.True(t, rel == 0 || rel >= int64(p.MinMove), "liberado fuera de rango: %d", rel)
			nd, err := rebalance.ComputeNeeded(r, p)
			require.NoError(t, err)
			assert.True(t, nd == 0 || nd >= int64(p.MinMove), "necesidad fuera de rango: %d", nd)
		}

		releases, err := rebalance.BuildReleaseCandidates(rows, sel.Outgoing, p)
		require.NoError(t, err)
		needs, err := rebalance.BuildNeedCandidates(rows, sel.Incoming, p)
		require.NoError(t, err)
		raw := rebalance.Allocate(releases, needs, p.MinMove, nil)

		releasable := map[entity.StoreProductKey]int64{}
		for _, rc := range releases {
			releasable[entity.StoreProductKey{Store: rc.Store, ProductCode: rc.ProductCode}] += rc.Releasable
		}
		needed := map[entity.StoreProductKey]int64{}
		for _, nc := range needs {
			needed[entity.StoreProductKey{Store: nc.Store, ProductCode: nc.ProductCode}] += nc.Needed
		}

		shipped := map[entity.StoreProductKey]int64{}
		received := map[entity.StoreProductKey]int64{}
		for _, tr := range raw {
			assert.GreaterOrEqual(t, tr.Quantity, int64(p.MinMove))
			shipped[tr.SourceKey()] += tr.Quantity
			received[tr.DestinationKey()] += tr.Quantity
		}
		for k, q := range shipped {
			assert.LessOrEqual(t, q, releasable[k], "origen %v envía de más", k)
		}
		for k, q := range received {
			assert.LessOrEqual(t, q, needed[k], "destino %v recibe de más", k)
		}

		res, err := rebalance.Run(rows, p, sel)
		require.NoError(t, err)

		final := map[entity.StoreProductKey]int64{}
		for _, tr := range res.Transfers {
			final[tr.DestinationKey()] += tr.Quantity
		}
		for k, q := range final {
			assert.Equal(t, needed[k], q, "pareja sobreviviente %v no atendida exactamente", k)
		}

		again, err := rebalance.Run(rows, p, sel)
		require.NoError(t, err)
		assert.Equal(t, res, again, "la ejecución debe ser determinista")
	}
}

func TestRun_CantidadFueraDeRango(t *testing.T) {
	huge := row("X", "P1", 0, 0)
	huge.Available = decimal.RequireFromString("1e19")
	rows := []entity.InventoryRow{huge, row("Y", "P1", 100, 10)}

	res, err := rebalance.Run(rows, scenarioParams, rebalance.StoreSelection{Outgoing: []string{"X"}, Incoming: []string{"Y"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, res)
}

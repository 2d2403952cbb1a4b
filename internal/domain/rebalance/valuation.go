package rebalance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// Valuate asigna costo unitario y comprador desde la fila (tienda ORIGEN, producto)
// y calcula valor = cantidad * costo. Devuelve una copia; el slice recibido no cambia.
func Valuate(transfers []entity.Transfer, ix *SnapshotIndex) []entity.Transfer {
	out := make([]entity.Transfer, len(transfers))
	for i, t := range transfers {
		cost, buyer := ix.Cost(t.SourceKey())
		t.UnitCost = cost
		t.Buyer = buyer
		t.Value = cost.Mul(decimal.NewFromInt(t.Quantity))
		out[i] = t
	}
	return out
}

// Rollups totales valorizados por comprador, tienda de salida y tienda de entrada.
type Rollups struct {
	ByBuyer            entity.Rollup
	BySourceStore      entity.Rollup
	ByDestinationStore entity.Rollup
}

// BuildRollups agrupa los traslados valorizados en las tres tablas gerenciales.
func BuildRollups(transfers []entity.Transfer) Rollups {
	return Rollups{
		ByBuyer:            RollupBy(transfers, func(t entity.Transfer) string { return t.Buyer }),
		BySourceStore:      RollupBy(transfers, func(t entity.Transfer) string { return t.SourceStore }),
		ByDestinationStore: RollupBy(transfers, func(t entity.Transfer) string { return t.DestinationStore }),
	}
}

// RollupBy suma el valor por llave. Llaves sin traslados no aparecen; sin traslados
// la tabla queda vacía con total cero. Filas ordenadas por llave.
func RollupBy(transfers []entity.Transfer, key func(entity.Transfer) string) entity.Rollup {
	totals := make(map[string]decimal.Decimal)
	for _, t := range transfers {
		k := key(t)
		totals[k] = totals[k].Add(t.Value)
	}

	rows := make([]entity.RollupRow, 0, len(totals))
	grand := decimal.Zero
	for k, v := range totals {
		rows = append(rows, entity.RollupRow{Key: k, TotalValue: v})
		grand = grand.Add(v)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return entity.Rollup{Rows: rows, Total: grand}
}

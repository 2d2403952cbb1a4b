package rebalance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// OutgoingDiagnostic situación de una fila de tienda de salida antes y después del rateo.
// Los días de stock quedan en nil cuando la venta media es cero.
type OutgoingDiagnostic struct {
	Store            string
	ProductCode      string
	ProductName      string
	AvgDailySales    decimal.Decimal
	CurrentStock     decimal.Decimal
	DaysOfStock      *decimal.Decimal
	PendingPO        decimal.Decimal
	Releasable       int64
	Transferred      int64
	StockAfter       decimal.Decimal
	DaysOfStockAfter *decimal.Decimal
}

// IncomingDiagnostic situación de una fila de tienda de entrada frente a lo recibido.
type IncomingDiagnostic struct {
	Store         string
	ProductCode   string
	ProductName   string
	AvgDailySales decimal.Decimal
	TargetStock   decimal.Decimal
	CurrentStock  decimal.Decimal
	Needed        int64
	Received      int64
	Fulfilled     bool
}

// BuildOutgoingDiagnostics cruza los candidatos liberados con los traslados finales.
// Lo trasladado se suma por (tienda, producto).
func BuildOutgoingDiagnostics(rows []entity.InventoryRow, releases []ReleaseCandidate, transfers []entity.Transfer) []OutgoingDiagnostic {
	shipped := make(map[entity.StoreProductKey]int64)
	for _, t := range transfers {
		shipped[t.SourceKey()] += t.Quantity
	}

	out := make([]OutgoingDiagnostic, 0, len(releases))
	for _, rc := range releases {
		r := rows[rc.Index]
		moved := shipped[r.Key()]
		after := r.Available.Sub(decimal.NewFromInt(moved))
		out = append(out, OutgoingDiagnostic{
			Store:            r.Store,
			ProductCode:      r.ProductCode,
			ProductName:      r.ProductName,
			AvgDailySales:    r.AvgDailySales,
			CurrentStock:     r.Available,
			DaysOfStock:      entity.DaysOfStock(r.Available, r.AvgDailySales),
			PendingPO:        r.PendingPO,
			Releasable:       rc.Releasable,
			Transferred:      moved,
			StockAfter:       after,
			DaysOfStockAfter: entity.DaysOfStock(after, r.AvgDailySales),
		})
	}
	return out
}

// BuildIncomingDiagnostics cruza las necesidades con lo recibido por (tienda, producto).
func BuildIncomingDiagnostics(rows []entity.InventoryRow, needs []NeedCandidate, transfers []entity.Transfer) []IncomingDiagnostic {
	received := make(map[entity.StoreProductKey]int64)
	for _, t := range transfers {
		received[t.DestinationKey()] += t.Quantity
	}

	out := make([]IncomingDiagnostic, 0, len(needs))
	for _, nc := range needs {
		r := rows[nc.Index]
		got := received[r.Key()]
		out = append(out, IncomingDiagnostic{
			Store:         r.Store,
			ProductCode:   r.ProductCode,
			ProductName:   r.ProductName,
			AvgDailySales: r.AvgDailySales,
			TargetStock:   nc.TargetStock,
			CurrentStock:  r.Available,
			Needed:        nc.Needed,
			Received:      got,
			Fulfilled:     got > 0,
		})
	}
	return out
}

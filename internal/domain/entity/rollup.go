package entity

import "github.com/shopspring/decimal"

// RollupRow total valorizado para una llave de agrupación (comprador o tienda).
type RollupRow struct {
	Key        string
	TotalValue decimal.Decimal
}

// Rollup tabla de totales ordenada por llave, con su total general.
type Rollup struct {
	Rows  []RollupRow
	Total decimal.Decimal
}

package rebalance

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// MaxQuantity mayor cantidad representable en un traslado (int64).
var MaxQuantity = decimal.NewFromInt(math.MaxInt64)

// ReleaseCandidate fila de una tienda de salida con cantidad liberada > 0.
type ReleaseCandidate struct {
	Index       int // posición de la fila en la base (desempate estable)
	Store       string
	ProductCode string
	Releasable  int64
}

// NeedCandidate fila de una tienda de entrada con necesidad > 0.
type NeedCandidate struct {
	Index        int
	Store        string
	ProductCode  string
	Needed       int64
	TargetStock  decimal.Decimal // diagnóstico, 4 decimales
	CurrentStock decimal.Decimal
}

// ComputeReleasable calcula la cantidad liberada para trasladar:
//
//	base = disponible - venta_media * min_days_out (+ pedido pendiente)
//
// Si base >= min_move se redondea al entero más cercano (mitades lejos de cero); si no, 0.
// Una base que no cabe en int64 es domain.ErrInvalidInput.
func ComputeReleasable(row entity.InventoryRow, p Params) (int64, error) {
	base := row.Available.Sub(row.AvgDailySales.Mul(decimal.NewFromInt(int64(p.MinDaysOut))))
	if p.IncludePendingPO {
		base = base.Add(row.PendingPO)
	}
	if base.LessThan(decimal.NewFromInt(int64(p.MinMove))) {
		return 0, nil
	}
	return toQuantity(base.Round(0))
}

// TargetStock stock objetivo de la tienda de entrada: venta_media * target_days_in.
func TargetStock(row entity.InventoryRow, p Params) decimal.Decimal {
	return row.AvgDailySales.Mul(decimal.NewFromInt(int64(p.TargetDaysIn)))
}

// ComputeNeeded calcula la necesidad líquida de la tienda de entrada:
//
//	faltante = stock_objetivo - disponible (- pedido pendiente)
//
// faltante <= 0 devuelve 0; si no, techo(faltante), anulado cuando queda bajo min_move.
// Un faltante que no cabe en int64 es domain.ErrInvalidInput.
func ComputeNeeded(row entity.InventoryRow, p Params) (int64, error) {
	shortfall := TargetStock(row, p).Sub(row.Available)
	if p.IncludePendingPO {
		shortfall = shortfall.Sub(row.PendingPO)
	}
	if shortfall.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}
	needed, err := toQuantity(shortfall.Ceil())
	if err != nil {
		return 0, err
	}
	if needed < int64(p.MinMove) {
		return 0, nil
	}
	return needed, nil
}

// CheckRow rechaza filas cuyas cantidades no caben en int64 (celdas como "1e19").
func CheckRow(r entity.InventoryRow) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"disponible", r.Available},
		{"pedido pendiente", r.PendingPO},
		{"venta media", r.AvgDailySales},
	}
	for _, f := range fields {
		if f.value.Abs().GreaterThan(MaxQuantity) {
			return fmt.Errorf("%w: %s %s fuera de rango", domain.ErrInvalidInput, f.name, f.value.String())
		}
	}
	return nil
}

// toQuantity pasa a int64 un valor ya entero, sin desbordar.
func toQuantity(d decimal.Decimal) (int64, error) {
	if d.Abs().GreaterThan(MaxQuantity) {
		return 0, fmt.Errorf("%w: cantidad %s fuera de rango", domain.ErrInvalidInput, d.String())
	}
	return d.IntPart(), nil
}

// BuildReleaseCandidates aplica ComputeReleasable a las filas de tiendas de salida
// y conserva solo las que liberan algo, en el orden de la base.
func BuildReleaseCandidates(rows []entity.InventoryRow, outgoing []string, p Params) ([]ReleaseCandidate, error) {
	stores := toSet(outgoing)
	var out []ReleaseCandidate
	for i, r := range rows {
		if _, ok := stores[r.Store]; !ok {
			continue
		}
		qty, err := ComputeReleasable(r, p)
		if err != nil {
			return nil, fmt.Errorf("fila %d (%s/%s): %w", i+1, r.Store, r.ProductCode, err)
		}
		if qty <= 0 {
			continue
		}
		out = append(out, ReleaseCandidate{
			Index:       i,
			Store:       r.Store,
			ProductCode: r.ProductCode,
			Releasable:  qty,
		})
	}
	return out, nil
}

// BuildNeedCandidates aplica ComputeNeeded a las filas de tiendas de entrada
// y conserva solo las que necesitan algo, en el orden de la base.
func BuildNeedCandidates(rows []entity.InventoryRow, incoming []string, p Params) ([]NeedCandidate, error) {
	stores := toSet(incoming)
	var out []NeedCandidate
	for i, r := range rows {
		if _, ok := stores[r.Store]; !ok {
			continue
		}
		qty, err := ComputeNeeded(r, p)
		if err != nil {
			return nil, fmt.Errorf("fila %d (%s/%s): %w", i+1, r.Store, r.ProductCode, err)
		}
		if qty <= 0 {
			continue
		}
		out = append(out, NeedCandidate{
			Index:        i,
			Store:        r.Store,
			ProductCode:  r.ProductCode,
			Needed:       qty,
			TargetStock:  TargetStock(r, p).Round(4),
			CurrentStock: r.Available,
		})
	}
	return out, nil
}

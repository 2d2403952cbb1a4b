package entity

import "github.com/shopspring/decimal"

// DefaultBuyer comprador asignado cuando la base no trae la columna o la celda está vacía.
const DefaultBuyer = "N/A"

// InventoryRow representa una fila de la base de inventario (tienda + producto).
// Es inmutable para el motor: el rateo trabaja sobre copias propias de las cantidades.
type InventoryRow struct {
	Store         string
	ProductCode   string
	ProductName   string
	PackUnit      string
	Available     decimal.Decimal // Quantidade Disponível
	PendingPO     decimal.Decimal // Qtd. Pend. Ped.Compra
	AvgDailySales decimal.Decimal // Média Vda/Dia
	UnitCost      decimal.Decimal // Cto. Bruto Unitário
	Buyer         string
}

// StoreProductKey identifica una combinación tienda + producto.
type StoreProductKey struct {
	Store       string
	ProductCode string
}

// Key devuelve la llave (tienda, producto) de la fila.
func (r InventoryRow) Key() StoreProductKey {
	return StoreProductKey{Store: r.Store, ProductCode: r.ProductCode}
}

// DaysOfStock devuelve available / avgDailySales redondeado a 2 decimales.
// Retorna nil cuando la venta media es cero: el indicador queda indefinido.
func DaysOfStock(available, avgDailySales decimal.Decimal) *decimal.Decimal {
	if !avgDailySales.GreaterThan(decimal.Zero) {
		return nil
	}
	d := available.Div(avgDailySales).Round(2)
	return &d
}

package entity

import "github.com/shopspring/decimal"

// Transfer representa un traslado tienda a tienda de un producto.
// Costo y comprador se atribuyen desde la fila de la tienda de ORIGEN.
type Transfer struct {
	ProductCode string
	ProductName string
	PackUnit    string
	Quantity    int64

	SourceStore      string
	DestinationStore string

	// Foto de la tienda destino antes del rateo (diagnóstico).
	DestinationStock       decimal.Decimal
	DestinationTargetStock decimal.Decimal

	UnitCost decimal.Decimal
	Buyer    string
	Value    decimal.Decimal // Quantity * UnitCost
}

// DestinationKey llave (tienda destino, producto) del traslado.
func (t Transfer) DestinationKey() StoreProductKey {
	return StoreProductKey{Store: t.DestinationStore, ProductCode: t.ProductCode}
}

// SourceKey llave (tienda origen, producto) del traslado.
func (t Transfer) SourceKey() StoreProductKey {
	return StoreProductKey{Store: t.SourceStore, ProductCode: t.ProductCode}
}

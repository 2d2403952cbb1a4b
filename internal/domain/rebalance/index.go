package rebalance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// ProductInfo descripción de un producto tomada de su primera aparición en la base.
type ProductInfo struct {
	Name     string
	PackUnit string
}

type costInfo struct {
	unitCost decimal.Decimal
	buyer    string
}

// SnapshotIndex búsquedas de solo lectura sobre la base: producto por código,
// costo/comprador por (tienda, producto) y tiendas presentes. Gana la primera fila.
type SnapshotIndex struct {
	products map[string]ProductInfo
	costs    map[entity.StoreProductKey]costInfo
	stores   map[string]struct{}
}

// NewSnapshotIndex construye el índice recorriendo la base una sola vez.
func NewSnapshotIndex(rows []entity.InventoryRow) *SnapshotIndex {
	ix := &SnapshotIndex{
		products: make(map[string]ProductInfo),
		costs:    make(map[entity.StoreProductKey]costInfo, len(rows)),
		stores:   make(map[string]struct{}),
	}
	for _, r := range rows {
		ix.stores[r.Store] = struct{}{}
		if _, ok := ix.products[r.ProductCode]; !ok {
			ix.products[r.ProductCode] = ProductInfo{Name: r.ProductName, PackUnit: r.PackUnit}
		}
		if _, ok := ix.costs[r.Key()]; !ok {
			ix.costs[r.Key()] = costInfo{unitCost: r.UnitCost, buyer: r.Buyer}
		}
	}
	return ix
}

// Product devuelve nombre y embalaje del producto (vacíos si no existe).
func (ix *SnapshotIndex) Product(code string) ProductInfo {
	if ix == nil {
		return ProductInfo{}
	}
	return ix.products[code]
}

// Cost devuelve costo unitario y comprador de la fila (tienda, producto).
// Sin fila: costo 0 y comprador "N/A".
func (ix *SnapshotIndex) Cost(key entity.StoreProductKey) (decimal.Decimal, string) {
	if ix == nil {
		return decimal.Zero, entity.DefaultBuyer
	}
	c, ok := ix.costs[key]
	if !ok {
		return decimal.Zero, entity.DefaultBuyer
	}
	buyer := c.buyer
	if buyer == "" {
		buyer = entity.DefaultBuyer
	}
	return c.unitCost, buyer
}

// HasStore indica si la tienda aparece en la base.
func (ix *SnapshotIndex) HasStore(store string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.stores[store]
	return ok
}

// Stores lista las tiendas distintas de la base en orden alfabético.
func (ix *SnapshotIndex) Stores() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, 0, len(ix.stores))
	for s := range ix.stores {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

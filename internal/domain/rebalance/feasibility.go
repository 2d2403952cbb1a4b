package rebalance

import "github.com/jhoicas/Rateio-api/internal/domain/entity"

// FilterFeasible aplica la política de atención total: si una pareja (tienda destino, producto)
// recibe menos que su necesidad, se eliminan TODOS sus traslados, aunque movieran stock útil.
// Devuelve los traslados sobrevivientes (en su orden original) y cuántas parejas se descartaron.
//
// La necesidad de la pareja es la suma de sus candidatos (una base puede repetir la fila).
// Con filas repetidas se compara esa suma con lo recibido, no la necesidad de cada fila por separado.
func FilterFeasible(transfers []entity.Transfer, needs []NeedCandidate) ([]entity.Transfer, int) {
	needed := make(map[entity.StoreProductKey]int64, len(needs))
	for _, nc := range needs {
		needed[entity.StoreProductKey{Store: nc.Store, ProductCode: nc.ProductCode}] += nc.Needed
	}

	delivered := make(map[entity.StoreProductKey]int64)
	for _, t := range transfers {
		delivered[t.DestinationKey()] += t.Quantity
	}

	short := make(map[entity.StoreProductKey]struct{})
	for key, qty := range delivered {
		if qty < needed[key] {
			short[key] = struct{}{}
		}
	}

	kept := make([]entity.Transfer, 0, len(transfers))
	for _, t := range transfers {
		if _, drop := short[t.DestinationKey()]; drop {
			continue
		}
		kept = append(kept, t)
	}
	return kept, len(short)
}

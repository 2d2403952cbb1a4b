package rebalance

import (
	"sort"

	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// Allocate empareja, producto por producto, la cantidad liberada de las tiendas de salida
// con la necesidad de las tiendas de entrada (algoritmo voraz sin retroceso).
//
// Por producto (orden de primera aparición entre los liberados):
//  1. Liberados y necesidades se ordenan de mayor a menor; empates por orden en la base.
//  2. Cada necesidad recorre los liberados con saldo > 0 y toma min(saldo, necesidad restante).
//  3. Un emparejamiento bajo min_move se salta sin reintentar ese saldo en la misma pasada.
//
// Los saldos son copias propias: los candidatos recibidos no se modifican. Nunca se
// envía más de lo liberado por fila ni se entrega más de lo necesitado por fila.
func Allocate(releases []ReleaseCandidate, needs []NeedCandidate, minMove int, ix *SnapshotIndex) []entity.Transfer {
	remainingRelease := make([]int64, len(releases))
	releaseByProduct := make(map[string][]int)
	var products []string
	for i, rc := range releases {
		remainingRelease[i] = rc.Releasable
		if _, seen := releaseByProduct[rc.ProductCode]; !seen {
			products = append(products, rc.ProductCode)
		}
		releaseByProduct[rc.ProductCode] = append(releaseByProduct[rc.ProductCode], i)
	}

	needByProduct := make(map[string][]int)
	for i, nc := range needs {
		needByProduct[nc.ProductCode] = append(needByProduct[nc.ProductCode], i)
	}

	threshold := int64(minMove)
	var transfers []entity.Transfer
	for _, product := range products {
		srcIdx := releaseByProduct[product]
		dstIdx := needByProduct[product]
		if len(srcIdx) == 0 || len(dstIdx) == 0 {
			continue
		}

		sortByOrigin(srcIdx, func(i int) (int64, int) { return releases[i].Releasable, releases[i].Index })
		sortByOrigin(dstIdx, func(i int) (int64, int) { return needs[i].Needed, needs[i].Index })

		info := ix.Product(product)
		for _, d := range dstIdx {
			need := needs[d]
			remainingNeed := need.Needed

			for _, s := range srcIdx {
				if remainingNeed <= 0 {
					break
				}
				if remainingRelease[s] <= 0 {
					continue
				}
				qty := min(remainingRelease[s], remainingNeed)
				if qty < threshold {
					continue
				}

				transfers = append(transfers, entity.Transfer{
					ProductCode:            product,
					ProductName:            info.Name,
					PackUnit:               info.PackUnit,
					Quantity:               qty,
					SourceStore:            releases[s].Store,
					DestinationStore:       need.Store,
					DestinationStock:       need.CurrentStock,
					DestinationTargetStock: need.TargetStock,
				})
				remainingRelease[s] -= qty
				remainingNeed -= qty
			}
		}
	}
	return transfers
}

// sortByOrigin ordena índices por cantidad descendente; a igual cantidad gana la fila
// que aparece antes en la base.
func sortByOrigin(idx []int, attr func(int) (qty int64, origin int)) {
	sort.SliceStable(idx, func(a, b int) bool {
		qa, oa := attr(idx[a])
		qb, ob := attr(idx[b])
		if qa != qb {
			return qa > qb
		}
		return oa < ob
	})
}

// Package rebalance implementa el motor de rateo de inventario tienda a tienda:
// elegibilidad, asignación voraz por producto, filtro de atención total y valorización.
//
// Todas las funciones son puras y deterministas: la misma base y los mismos parámetros
// producen siempre los mismos traslados en el mismo orden.
package rebalance

import (
	"fmt"

	"github.com/jhoicas/Rateio-api/internal/domain"
)

// ModalityStoreToStore única modalidad soportada (sin centros de distribución intermedios).
const ModalityStoreToStore = "store_to_store"

// Params parámetros escalares de una ejecución. Se pasan por valor a cada etapa.
type Params struct {
	MinDaysOut       int  // días de stock mínimo que conserva la tienda de salida
	TargetDaysIn     int  // días de stock objetivo de la tienda de entrada
	MinMove          int  // cantidad mínima para liberar, necesitar o trasladar
	IncludePendingPO bool // considerar pedidos de compra pendientes
}

// Validate verifica que los parámetros sean no negativos.
func (p Params) Validate() error {
	switch {
	case p.MinDaysOut < 0:
		return fmt.Errorf("%w: min_days_out debe ser >= 0", domain.ErrInvalidParams)
	case p.TargetDaysIn < 0:
		return fmt.Errorf("%w: target_days_in debe ser >= 0", domain.ErrInvalidParams)
	case p.MinMove < 0:
		return fmt.Errorf("%w: min_move debe ser >= 0", domain.ErrInvalidParams)
	}
	return nil
}

// StoreSelection tiendas de salida y de entrada elegidas por el usuario (conjuntos disjuntos).
type StoreSelection struct {
	Outgoing []string
	Incoming []string
}

// Validate exige ambos conjuntos no vacíos, disjuntos y con tiendas presentes en la base.
// Las tiendas de la base que no están en ningún conjunto simplemente no participan.
func (s StoreSelection) Validate(ix *SnapshotIndex) error {
	if len(s.Outgoing) == 0 || len(s.Incoming) == 0 {
		return domain.ErrEmptyStoreSet
	}
	out := toSet(s.Outgoing)
	for _, store := range s.Incoming {
		if _, ok := out[store]; ok {
			return fmt.Errorf("%w: %s", domain.ErrStoreInBothSets, store)
		}
	}
	if ix == nil {
		return nil
	}
	for _, list := range [][]string{s.Outgoing, s.Incoming} {
		for _, store := range list {
			if !ix.HasStore(store) {
				return fmt.Errorf("%w: %s", domain.ErrUnknownStore, store)
			}
		}
	}
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

package rebalance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// Stats contadores de una ejecución, útiles para logs y para la respuesta.
type Stats struct {
	Rows              int
	ReleaseCandidates int
	NeedCandidates    int
	RawTransfers      int
	DroppedPairs      int
	Transfers         int
	TotalQuantity     int64
	TotalValue        decimal.Decimal
}

// Result salida completa del motor.
type Result struct {
	Params    Params
	Selection StoreSelection
	Transfers []entity.Transfer
	Rollups   Rollups
	Outgoing  []OutgoingDiagnostic
	Incoming  []IncomingDiagnostic
	Stats     Stats
}

// Run ejecuta el rateo completo sobre una base inmutable:
// elegibilidad → asignación → filtro de atención total → valorización.
// O devuelve todas las salidas o falla antes de producir alguna.
func Run(rows []entity.InventoryRow, p Params, sel StoreSelection) (*Result, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptySnapshot
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ix := NewSnapshotIndex(rows)
	if err := sel.Validate(ix); err != nil {
		return nil, err
	}

	releases, err := BuildReleaseCandidates(rows, sel.Outgoing, p)
	if err != nil {
		return nil, err
	}
	needs, err := BuildNeedCandidates(rows, sel.Incoming, p)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, domain.ErrNoOutgoingEligibility
	}
	if len(needs) == 0 {
		return nil, domain.ErrNoIncomingEligibility
	}

	raw := Allocate(releases, needs, p.MinMove, ix)
	feasible, dropped := FilterFeasible(raw, needs)
	transfers := Valuate(feasible, ix)
	rollups := BuildRollups(transfers)

	var totalQty int64
	for _, t := range transfers {
		totalQty += t.Quantity
	}

	return &Result{
		Params:    p,
		Selection: sel,
		Transfers: transfers,
		Rollups:   rollups,
		Outgoing:  BuildOutgoingDiagnostics(rows, releases, transfers),
		Incoming:  BuildIncomingDiagnostics(rows, needs, transfers),
		Stats: Stats{
			Rows:              len(rows),
			ReleaseCandidates: len(releases),
			NeedCandidates:    len(needs),
			RawTransfers:      len(raw),
			DroppedPairs:      dropped,
			Transfers:         len(transfers),
			TotalQuantity:     totalQty,
			TotalValue:        rollups.BySourceStore.Total,
		},
	}, nil
}

package rebalance

import (
	"time"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	engine "github.com/jhoicas/Rateio-api/internal/domain/rebalance"
)

func toResponse(runID string, at time.Time, source string, res *engine.Result) *dto.RebalanceResponse {
	out := &dto.RebalanceResponse{
		RunID:       runID,
		GeneratedAt: at,
		Source:      source,
		Params: dto.ParamsEchoDTO{
			Modality:         engine.ModalityStoreToStore,
			MinDaysOut:       res.Params.MinDaysOut,
			TargetDaysIn:     res.Params.TargetDaysIn,
			MinMove:          res.Params.MinMove,
			IncludePendingPO: res.Params.IncludePendingPO,
			OutgoingStores:   res.Selection.Outgoing,
			IncomingStores:   res.Selection.Incoming,
		},
		Transfers: make([]dto.TransferDTO, 0, len(res.Transfers)),
		Summary: dto.RebalanceSummaryDTO{
			ByBuyer:            toRollup(res.Rollups.ByBuyer),
			BySourceStore:      toRollup(res.Rollups.BySourceStore),
			ByDestinationStore: toRollup(res.Rollups.ByDestinationStore),
		},
		Outgoing: make([]dto.OutgoingDiagnosticDTO, 0, len(res.Outgoing)),
		Incoming: make([]dto.IncomingDiagnosticDTO, 0, len(res.Incoming)),
		Stats: dto.RebalanceStatsDTO{
			Rows:              res.Stats.Rows,
			ReleaseCandidates: res.Stats.ReleaseCandidates,
			NeedCandidates:    res.Stats.NeedCandidates,
			RawTransfers:      res.Stats.RawTransfers,
			DroppedPairs:      res.Stats.DroppedPairs,
			Transfers:         res.Stats.Transfers,
			TotalQuantity:     res.Stats.TotalQuantity,
			TotalValue:        res.Stats.TotalValue,
		},
	}
	for _, t := range res.Transfers {
		out.Transfers = append(out.Transfers, dto.TransferDTO{
			ProductCode:            t.ProductCode,
			ProductName:            t.ProductName,
			PackUnit:               t.PackUnit,
			Quantity:               t.Quantity,
			SourceStore:            t.SourceStore,
			DestinationStore:       t.DestinationStore,
			DestinationStock:       t.DestinationStock,
			DestinationTargetStock: t.DestinationTargetStock,
			UnitCost:               t.UnitCost,
			Buyer:                  t.Buyer,
			Value:                  t.Value,
		})
	}
	for _, d := range res.Outgoing {
		out.Outgoing = append(out.Outgoing, dto.OutgoingDiagnosticDTO{
			Store:            d.Store,
			ProductCode:      d.ProductCode,
			ProductName:      d.ProductName,
			AvgDailySales:    d.AvgDailySales,
			CurrentStock:     d.CurrentStock,
			DaysOfStock:      d.DaysOfStock,
			PendingPO:        d.PendingPO,
			Releasable:       d.Releasable,
			Transferred:      d.Transferred,
			StockAfter:       d.StockAfter,
			DaysOfStockAfter: d.DaysOfStockAfter,
		})
	}
	for _, d := range res.Incoming {
		out.Incoming = append(out.Incoming, dto.IncomingDiagnosticDTO{
			Store:         d.Store,
			ProductCode:   d.ProductCode,
			ProductName:   d.ProductName,
			AvgDailySales: d.AvgDailySales,
			TargetStock:   d.TargetStock,
			CurrentStock:  d.CurrentStock,
			Needed:        d.Needed,
			Received:      d.Received,
			Fulfilled:     d.Fulfilled,
		})
	}
	return out
}

func toRollup(r entity.Rollup) dto.RollupDTO {
	rows := make([]dto.RollupRowDTO, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, dto.RollupRowDTO{Key: row.Key, TotalValue: row.TotalValue})
	}
	return dto.RollupDTO{Rows: rows, Total: r.Total}
}

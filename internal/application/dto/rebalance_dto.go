package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRowDTO una fila de la base de inventario (tienda × producto).
type InventoryRowDTO struct {
	Store         string          `json:"store"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name,omitempty"`
	PackUnit      string          `json:"pack_unit,omitempty"`
	Available     decimal.Decimal `json:"available"`
	PendingPO     decimal.Decimal `json:"pending_po"`
	AvgDailySales decimal.Decimal `json:"avg_daily_sales"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Buyer         string          `json:"buyer,omitempty"`
}

// RebalanceParamsDTO parámetros opcionales; los ausentes toman el valor configurado.
type RebalanceParamsDTO struct {
	MinDaysOut       *int  `json:"min_days_out,omitempty"`
	TargetDaysIn     *int  `json:"target_days_in,omitempty"`
	MinMove          *int  `json:"min_move,omitempty"`
	IncludePendingPO *bool `json:"include_pending_po,omitempty"`
}

// StoreSelectionDTO tiendas de salida y de entrada.
type StoreSelectionDTO struct {
	OutgoingStores []string `json:"outgoing_stores"`
	IncomingStores []string `json:"incoming_stores"`
}

// RebalanceRequest body para POST /api/rebalance y /api/rebalance/report.
type RebalanceRequest struct {
	Rows   []InventoryRowDTO  `json:"rows"`
	Params RebalanceParamsDTO `json:"params"`
	StoreSelectionDTO
}

// SnapshotRebalanceRequest body para POST /api/snapshots/:id/rebalance.
type SnapshotRebalanceRequest struct {
	Params RebalanceParamsDTO `json:"params"`
	StoreSelectionDTO
}

// ParamsEchoDTO parámetros efectivamente usados en la ejecución.
type ParamsEchoDTO struct {
	Modality         string   `json:"modality"`
	MinDaysOut       int      `json:"min_days_out"`
	TargetDaysIn     int      `json:"target_days_in"`
	MinMove          int      `json:"min_move"`
	IncludePendingPO bool     `json:"include_pending_po"`
	OutgoingStores   []string `json:"outgoing_stores"`
	IncomingStores   []string `json:"incoming_stores"`
}

// TransferDTO un traslado sugerido de una tienda a otra.
type TransferDTO struct {
	ProductCode            string          `json:"product_code"`
	ProductName            string          `json:"product_name"`
	PackUnit               string          `json:"pack_unit"`
	Quantity               int64           `json:"quantity"`
	SourceStore            string          `json:"source_store"`
	DestinationStore       string          `json:"destination_store"`
	DestinationStock       decimal.Decimal `json:"destination_stock"`
	DestinationTargetStock decimal.Decimal `json:"destination_target_stock"`
	UnitCost               decimal.Decimal `json:"unit_cost"`
	Buyer                  string          `json:"buyer"`
	Value                  decimal.Decimal `json:"value"`
}

// RollupRowDTO total valorizado de una clave (comprador o tienda).
type RollupRowDTO struct {
	Key        string          `json:"key"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// RollupDTO filas ordenadas por clave más el total general.
type RollupDTO struct {
	Rows  []RollupRowDTO  `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// RebalanceSummaryDTO los tres resúmenes gerenciales.
type RebalanceSummaryDTO struct {
	ByBuyer            RollupDTO `json:"by_buyer"`
	BySourceStore      RollupDTO `json:"by_source_store"`
	ByDestinationStore RollupDTO `json:"by_destination_store"`
}

// OutgoingDiagnosticDTO situación de la tienda de salida antes y después del rateo.
// days_of_stock es null cuando la venta media es cero.
type OutgoingDiagnosticDTO struct {
	Store            string           `json:"store"`
	ProductCode      string           `json:"product_code"`
	ProductName      string           `json:"product_name"`
	AvgDailySales    decimal.Decimal  `json:"avg_daily_sales"`
	CurrentStock     decimal.Decimal  `json:"current_stock"`
	DaysOfStock      *decimal.Decimal `json:"days_of_stock"`
	PendingPO        decimal.Decimal  `json:"pending_po"`
	Releasable       int64            `json:"releasable"`
	Transferred      int64            `json:"transferred"`
	StockAfter       decimal.Decimal  `json:"stock_after"`
	DaysOfStockAfter *decimal.Decimal `json:"days_of_stock_after"`
}

// IncomingDiagnosticDTO situación de la tienda de entrada frente a lo recibido.
type IncomingDiagnosticDTO struct {
	Store         string          `json:"store"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	AvgDailySales decimal.Decimal `json:"avg_daily_sales"`
	TargetStock   decimal.Decimal `json:"target_stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	Needed        int64           `json:"needed"`
	Received      int64           `json:"received"`
	Fulfilled     bool            `json:"fulfilled"`
}

// RebalanceStatsDTO contadores de la ejecución.
type RebalanceStatsDTO struct {
	Rows              int             `json:"rows"`
	ReleaseCandidates int             `json:"release_candidates"`
	NeedCandidates    int             `json:"need_candidates"`
	RawTransfers      int             `json:"raw_transfers"`
	DroppedPairs      int             `json:"dropped_pairs"`
	Transfers         int             `json:"transfers"`
	TotalQuantity     int64           `json:"total_quantity"`
	TotalValue        decimal.Decimal `json:"total_value"`
}

// RebalanceResponse resultado completo de un rateo.
type RebalanceResponse struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Source      string                  `json:"source"` // request | upload | snapshot:<id>
	Params      ParamsEchoDTO           `json:"params"`
	Transfers   []TransferDTO           `json:"transfers"`
	Summary     RebalanceSummaryDTO     `json:"summary"`
	Outgoing    []OutgoingDiagnosticDTO `json:"outgoing"`
	Incoming    []IncomingDiagnosticDTO `json:"incoming"`
	Stats       RebalanceStatsDTO       `json:"stats"`
}

// SnapshotDTO base de inventario disponible en la fuente configurada.
type SnapshotDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// StoreListResponse tiendas distintas de una base, ordenadas.
type StoreListResponse struct {
	Stores []string `json:"stores"`
}

// Package rebalance orquesta el motor de rateo: resuelve parámetros, carga la base,
// ejecuta el motor y arma la respuesta (con id de ejecución), el informe PDF y el libro .xlsx.
package rebalance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	engine "github.com/jhoicas/Rateio-api/internal/domain/rebalance"
	"github.com/jhoicas/Rateio-api/internal/domain/repository"
	"github.com/jhoicas/Rateio-api/pkg/config"
	"github.com/jhoicas/Rateio-api/pkg/logger"
)

// Orígenes de la base informados en la respuesta.
const (
	SourceRequest  = "request"
	SourceUpload   = "upload"
	sourceSnapshot = "snapshot:"
)

// RebalanceUseCase casos de uso del rateo tienda a tienda.
type RebalanceUseCase struct {
	defaults  engine.Params
	snapshots repository.SnapshotRepository // nil si no hay fuente configurada
	report    ReportGenerator
	workbook  WorkbookGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewRebalanceUseCase construye el caso de uso. snapshots puede ser nil.
func NewRebalanceUseCase(
	defaults config.RebalanceDefaults,
	snapshots repository.SnapshotRepository,
	report ReportGenerator,
	workbook WorkbookGenerator,
	log *logger.Logger,
) *RebalanceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RebalanceUseCase{
		defaults: engine.Params{
			MinDaysOut:       defaults.MinDaysOut,
			TargetDaysIn:     defaults.TargetDaysIn,
			MinMove:          defaults.MinMove,
			IncludePendingPO: defaults.IncludePendingPO,
		},
		snapshots: snapshots,
		report:    report,
		workbook:  workbook,
		log:       log.Component("rebalance"),
		now:       time.Now,
	}
}

// RunFromRequest ejecuta el rateo sobre las filas enviadas en el cuerpo JSON.
func (uc *RebalanceUseCase) RunFromRequest(ctx context.Context, in dto.RebalanceRequest) (*dto.RebalanceResponse, error) {
	rows, err := RowsFromDTO(in.Rows)
	if err != nil {
		return nil, err
	}
	return uc.Run(ctx, SourceRequest, rows, in.Params, in.StoreSelectionDTO)
}

// RunSnapshot carga una base guardada y ejecuta el rateo sobre ella.
func (uc *RebalanceUseCase) RunSnapshot(ctx context.Context, snapshotID string, in dto.SnapshotRebalanceRequest) (*dto.RebalanceResponse, error) {
	rows, err := uc.loadSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	return uc.Run(ctx, sourceSnapshot+snapshotID, rows, in.Params, in.StoreSelectionDTO)
}

// Run ejecuta el motor sobre filas ya parseadas. source identifica el origen en la respuesta.
func (uc *RebalanceUseCase) Run(
	ctx context.Context,
	source string,
	rows []entity.InventoryRow,
	params dto.RebalanceParamsDTO,
	stores dto.StoreSelectionDTO,
) (*dto.RebalanceResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := uc.ResolveParams(params)
	sel := engine.StoreSelection{
		Outgoing: cleanStores(stores.OutgoingStores),
		Incoming: cleanStores(stores.IncomingStores),
	}
	runID := uuid.NewString()
	who := RequesterFrom(ctx)

	res, err := engine.Run(rows, p, sel)
	if err != nil {
		if errors.Is(err, domain.ErrNoOutgoingEligibility) || errors.Is(err, domain.ErrNoIncomingEligibility) {
			uc.log.Warn().
				Str("run_id", runID).
				Str("source", source).
				Str("requested_by", who.UserID).
				Int("rows", len(rows)).
				Err(err).
				Msg("rateo sin elegibles")
		}
		return nil, err
	}

	uc.log.Info().
		Str("run_id", runID).
		Str("source", source).
		Str("requested_by", who.UserID).
		Str("role", who.Role).
		Str("buyer", who.Buyer).
		Int("rows", res.Stats.Rows).
		Int("release_candidates", res.Stats.ReleaseCandidates).
		Int("need_candidates", res.Stats.NeedCandidates).
		Int("raw_transfers", res.Stats.RawTransfers).
		Int("dropped_pairs", res.Stats.DroppedPairs).
		Int("transfers", res.Stats.Transfers).
		Str("total_value", res.Stats.TotalValue.StringFixed(2)).
		Msg("rateo ejecutado")

	return toResponse(runID, uc.now().UTC(), source, res), nil
}

// Report genera el PDF de un resultado.
func (uc *RebalanceUseCase) Report(ctx context.Context, res *dto.RebalanceResponse) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("rebalance: generador de informe no configurado")
	}
	pdf, err := uc.report.GenerateRebalanceReport(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("informe rateo %s: %w", res.RunID, err)
	}
	return pdf, nil
}

// Workbook exporta un resultado como libro .xlsx.
func (uc *RebalanceUseCase) Workbook(ctx context.Context, res *dto.RebalanceResponse) ([]byte, error) {
	if uc.workbook == nil {
		return nil, fmt.Errorf("rebalance: exportador xlsx no configurado")
	}
	xlsx, err := uc.workbook.GenerateRebalanceWorkbook(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("libro rateo %s: %w", res.RunID, err)
	}
	return xlsx, nil
}

// ListSnapshots lista las bases disponibles en la fuente configurada.
func (uc *RebalanceUseCase) ListSnapshots(ctx context.Context) ([]dto.SnapshotDTO, error) {
	if uc.snapshots == nil {
		return nil, domain.ErrSnapshotSourceDisabled
	}
	list, err := uc.snapshots.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SnapshotDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SnapshotDTO{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt})
	}
	return out, nil
}

// ListSnapshotStores devuelve las tiendas distintas de una base guardada.
func (uc *RebalanceUseCase) ListSnapshotStores(ctx context.Context, snapshotID string) ([]string, error) {
	rows, err := uc.loadSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	return ListStores(rows), nil
}

// ResolveParams completa los parámetros ausentes con los valores configurados.
func (uc *RebalanceUseCase) ResolveParams(in dto.RebalanceParamsDTO) engine.Params {
	p := uc.defaults
	if in.MinDaysOut != nil {
		p.MinDaysOut = *in.MinDaysOut
	}
	if in.TargetDaysIn != nil {
		p.TargetDaysIn = *in.TargetDaysIn
	}
	if in.MinMove != nil {
		p.MinMove = *in.MinMove
	}
	if in.IncludePendingPO != nil {
		p.IncludePendingPO = *in.IncludePendingPO
	}
	return p
}

func (uc *RebalanceUseCase) loadSnapshot(ctx context.Context, snapshotID string) ([]entity.InventoryRow, error) {
	if uc.snapshots == nil {
		return nil, domain.ErrSnapshotSourceDisabled
	}
	if strings.TrimSpace(snapshotID) == "" {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.snapshots.Load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("snapshot_id", snapshotID).Int("rows", len(rows)).Msg("base cargada")
	return rows, nil
}

// ListStores tiendas distintas de las filas, ordenadas.
func ListStores(rows []entity.InventoryRow) []string {
	return engine.NewSnapshotIndex(rows).Stores()
}

// RowsFromDTO convierte las filas del cuerpo JSON. Tienda y producto son obligatorios.
func RowsFromDTO(in []dto.InventoryRowDTO) ([]entity.InventoryRow, error) {
	rows := make([]entity.InventoryRow, 0, len(in))
	for i, r := range in {
		store := strings.TrimSpace(r.Store)
		code := strings.TrimSpace(r.ProductCode)
		if store == "" || code == "" {
			return nil, fmt.Errorf("%w: fila %d sin tienda o código de producto", domain.ErrInvalidInput, i+1)
		}
		buyer := strings.TrimSpace(r.Buyer)
		if buyer == "" {
			buyer = entity.DefaultBuyer
		}
		row := entity.InventoryRow{
			Store:         store,
			ProductCode:   code,
			ProductName:   r.ProductName,
			PackUnit:      r.PackUnit,
			Available:     r.Available,
			PendingPO:     r.PendingPO,
			AvgDailySales: r.AvgDailySales,
			UnitCost:      r.UnitCost,
			Buyer:         buyer,
		}
		if err := engine.CheckRow(row); err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cleanStores recorta espacios y descarta vacíos conservando el orden.
func cleanStores(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

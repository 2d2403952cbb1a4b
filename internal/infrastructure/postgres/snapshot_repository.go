package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo lee bases de inventario de las tablas inventory_snapshots / inventory_snapshot_rows.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// List devuelve las bases guardadas, la más reciente primero.
func (r *SnapshotRepo) List(ctx context.Context) ([]repository.SnapshotSummary, error) {
	query := `
		SELECT id, name, created_at
		FROM inventory_snapshots
		ORDER BY created_at DESC, name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []repository.SnapshotSummary
	for rows.Next() {
		var (
			id        uuid.UUID
			s         repository.SnapshotSummary
			createdAt time.Time
		)
		if err := rows.Scan(&id, &s.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.ID = id.String()
		s.CreatedAt = &createdAt
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Load devuelve las filas de una base en el orden en que fueron cargadas (line_no).
func (r *SnapshotRepo) Load(ctx context.Context, snapshotID string) ([]entity.InventoryRow, error) {
	id, err := uuid.Parse(strings.TrimSpace(snapshotID))
	if err != nil {
		return nil, fmt.Errorf("%w: id de base inválido", domain.ErrInvalidInput)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT true FROM inventory_snapshots WHERE id = $1`, id).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	query := `
		SELECT store, product_code,
		       COALESCE(product_name, ''), COALESCE(pack_unit, ''),
		       COALESCE(available, 0), COALESCE(pending_po, 0),
		       COALESCE(avg_daily_sales, 0), COALESCE(unit_cost, 0),
		       COALESCE(NULLIF(TRIM(buyer), ''), $2)
		FROM inventory_snapshot_rows
		WHERE snapshot_id = $1
		ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, id, entity.DefaultBuyer)
	if err != nil {
		return nil, fmt.Errorf("load snapshot rows: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryRow
	for rows.Next() {
		var ir entity.InventoryRow
		if err := rows.Scan(
			&ir.Store, &ir.ProductCode, &ir.ProductName, &ir.PackUnit,
			&ir.Available, &ir.PendingPO, &ir.AvgDailySales, &ir.UnitCost, &ir.Buyer,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		out = append(out, ir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot rows: %w", err)
	}
	if len(out) == 0 {
		return nil, domain.ErrEmptySnapshot
	}
	return out, nil
}

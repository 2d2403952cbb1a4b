package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// SnapshotSummary identifica una base de inventario guardada en la fuente configurada.
type SnapshotSummary struct {
	ID        string
	Name      string
	CreatedAt *time.Time // nil cuando la fuente no registra fecha (Sheets)
}

// SnapshotRepository define el puerto de solo lectura hacia las bases de inventario guardadas.
// Las filas se devuelven en el orden de la fuente: ese orden es el índice estable del motor.
type SnapshotRepository interface {
	List(ctx context.Context) ([]SnapshotSummary, error)
	// Load devuelve domain.ErrNotFound si la base no existe.
	Load(ctx context.Context, snapshotID string) ([]entity.InventoryRow, error)
}

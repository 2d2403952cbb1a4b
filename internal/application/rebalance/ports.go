package rebalance

import (
	"context"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
)

// ReportGenerator genera el informe PDF de un rateo ya calculado.
type ReportGenerator interface {
	GenerateRebalanceReport(ctx context.Context, res *dto.RebalanceResponse) ([]byte, error)
}

// WorkbookGenerator exporta un rateo ya calculado como libro .xlsx.
type WorkbookGenerator interface {
	GenerateRebalanceWorkbook(ctx context.Context, res *dto.RebalanceResponse) ([]byte, error)
}

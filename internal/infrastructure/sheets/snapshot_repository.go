// Package sheets lee bases de inventario guardadas como pestañas de una planilla de Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/domain/repository"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/tabular"
	"github.com/jhoicas/Rateio-api/pkg/config"
	"github.com/jhoicas/Rateio-api/pkg/logger"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// rangeReader acceso mínimo a la planilla.
type rangeReader interface {
	ReadRange(ctx context.Context, a1 string) ([][]interface{}, error)
	SheetTitles(ctx context.Context) ([]string, error)
}

// SnapshotRepo cada pestaña (o rango A1) de la planilla es una base de inventario.
type SnapshotRepo struct {
	reader       rangeReader
	defaultRange string
	log          *logger.Logger
}

// NewSnapshotRepository crea el cliente de la API de Sheets con credenciales de cuenta de servicio.
func NewSnapshotRepository(ctx context.Context, cfg config.SheetsConfig, log *logger.Logger) (*SnapshotRepo, error) {
	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("inicializar cliente sheets: %w", err)
	}
	return newSnapshotRepo(&apiReader{service: service, spreadsheetID: cfg.SpreadsheetID}, cfg.DefaultRange, log), nil
}

func newSnapshotRepo(r rangeReader, defaultRange string, log *logger.Logger) *SnapshotRepo {
	if log == nil {
		log = logger.Nop()
	}
	if defaultRange == "" {
		defaultRange = "A:I"
	}
	return &SnapshotRepo{reader: r, defaultRange: defaultRange, log: log.Component("sheets")}
}

// List una entrada por pestaña; el id es el título de la pestaña.
func (r *SnapshotRepo) List(ctx context.Context) ([]repository.SnapshotSummary, error) {
	titles, err := r.reader.SheetTitles(ctx)
	if err != nil {
		return nil, mapAPIError(err)
	}
	out := make([]repository.SnapshotSummary, 0, len(titles))
	for _, t := range titles {
		out = append(out, repository.SnapshotSummary{ID: t, Name: t})
	}
	return out, nil
}

// Load lee la pestaña o el rango A1 indicado. La primera fila es el encabezado.
func (r *SnapshotRepo) Load(ctx context.Context, snapshotID string) ([]entity.InventoryRow, error) {
	a1 := r.rangeFor(snapshotID)
	values, err := r.reader.ReadRange(ctx, a1)
	if err != nil {
		return nil, mapAPIError(err)
	}
	rows, err := tabular.ParseCells(values)
	if err != nil {
		return nil, fmt.Errorf("base %s: %w", a1, err)
	}
	r.log.Debug().Str("range", a1).Int("rows", len(rows)).Msg("base leída de sheets")
	return rows, nil
}

// rangeFor "Semana 42" -> "'Semana 42'!A:I"; un id con "!" se usa tal cual.
func (r *SnapshotRepo) rangeFor(snapshotID string) string {
	id := strings.TrimSpace(snapshotID)
	if strings.Contains(id, "!") {
		return id
	}
	return "'" + strings.ReplaceAll(id, "'", "''") + "'!" + r.defaultRange
}

// mapAPIError convierte 404 y rangos inexistentes (400 "Unable to parse range") en ErrNotFound.
func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound:
			return domain.ErrNotFound
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
			return domain.ErrNotFound
		}
	}
	return fmt.Errorf("sheets: %w", err)
}

// apiReader implementación sobre la API oficial.
type apiReader struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

func (a *apiReader) ReadRange(ctx context.Context, a1 string) ([][]interface{}, error) {
	// Valores sin formato: números llegan como float64 sin separadores de miles del locale.
	resp, err := a.service.Spreadsheets.Values.Get(a.spreadsheetID, a1).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("leer rango %s: %w", a1, err)
	}
	return resp.Values, nil
}

func (a *apiReader) SheetTitles(ctx context.Context) ([]string, error) {
	resp, err := a.service.Spreadsheets.Get(a.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("leer planilla: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

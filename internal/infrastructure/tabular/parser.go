package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/domain/rebalance"
)

// ParseRecords valida el encabezado y convierte cada registro en una InventoryRow.
//   - Sin columna de tienda → domain.ErrMissingStoreColumn (fatal).
//   - Sin columna de código de producto → domain.ErrMissingColumn (fatal).
//   - Columnas numéricas ausentes o celdas no numéricas → 0.
//   - Comprador ausente o vacío → "N/A".
//
// Registros totalmente vacíos se ignoran; tienda o código vacíos son error de entrada.
func ParseRecords(header []string, records [][]string) ([]entity.InventoryRow, error) {
	pos := resolveHeader(header)
	if _, ok := pos[ColStore]; !ok {
		return nil, domain.ErrMissingStoreColumn
	}
	if _, ok := pos[ColProductCode]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, TemplateHeaders[ColProductCode])
	}

	rows := make([]entity.InventoryRow, 0, len(records))
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		line := i + 2 // el encabezado es la línea 1
		cell := func(c Column) string {
			idx, ok := pos[c]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		r := entity.InventoryRow{
			Store:         cell(ColStore),
			ProductCode:   cell(ColProductCode),
			ProductName:   cell(ColProductName),
			PackUnit:      cell(ColPackUnit),
			Available:     ParseNumber(cell(ColAvailable)),
			PendingPO:     ParseNumber(cell(ColPendingPO)),
			AvgDailySales: ParseNumber(cell(ColAvgDailySales)),
			UnitCost:      ParseNumber(cell(ColUnitCost)),
			Buyer:         cell(ColBuyer),
		}
		if r.Store == "" {
			return nil, fmt.Errorf("%w: línea %d sin tienda", domain.ErrInvalidInput, line)
		}
		if r.ProductCode == "" {
			return nil, fmt.Errorf("%w: línea %d sin código de producto", domain.ErrInvalidInput, line)
		}
		if err := rebalance.CheckRow(r); err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if r.Buyer == "" {
			r.Buyer = entity.DefaultBuyer
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// ParseCells adapta los valores de una hoja de cálculo (primera fila = encabezado).
func ParseCells(values [][]interface{}) ([]entity.InventoryRow, error) {
	if len(values) == 0 {
		return nil, domain.ErrEmptySnapshot
	}
	toStrings := func(row []interface{}) []string {
		out := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
			case float64:
				out[i] = strconv.FormatFloat(x, 'f', -1, 64)
			default:
				out[i] = fmt.Sprint(x)
			}
		}
		return out
	}
	records := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		records = append(records, toStrings(row))
	}
	return ParseRecords(toStrings(values[0]), records)
}

// ReadCSV lee una base en CSV. Acepta UTF-8 (con o sin BOM) y Windows-1252,
// y separador ',' o ';' (exportación de Excel en pt-BR).
func ReadCSV(r io.Reader) ([]entity.InventoryRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.ErrEmptySnapshot
	}

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptySnapshot
		}
		return nil, fmt.Errorf("leer encabezado csv: %w", err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv mal formado: %v", domain.ErrInvalidInput, err)
	}
	return ParseRecords(header, records)
}

// WriteTemplateCSV escribe el modelo en CSV (solo encabezados).
func WriteTemplateCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateHeaders); err != nil {
		return fmt.Errorf("escribir modelo: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ParseNumber interpreta una celda numérica. Acepta "1234.5", "1234,5", "1.234,5" y "1,234.5".
// Celdas vacías o no numéricas valen 0.
func ParseNumber(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

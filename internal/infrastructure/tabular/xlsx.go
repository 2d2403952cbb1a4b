package tabular

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Rateio-api/internal/domain"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
)

// BaseSheet hoja de la planilla que contiene la base de inventario.
const BaseSheet = "Base"

// Los .xlsx son archivos zip.
var zipMagic = []byte("PK\x03\x04")

// ReadBase detecta el formato (xlsx o CSV) por el contenido y lee la base.
func ReadBase(r io.Reader) ([]entity.InventoryRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer base: %w", err)
	}
	if bytes.HasPrefix(raw, zipMagic) {
		return ReadXLSX(bytes.NewReader(raw))
	}
	return ReadCSV(bytes.NewReader(raw))
}

// ReadXLSX lee la hoja "Base" de un libro .xlsx; sin esa hoja usa la primera.
// Los valores se leen sin formato para que los separadores del locale no lleguen al parser.
func ReadXLSX(r io.Reader) ([]entity.InventoryRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheet := BaseSheet
	if idx, err := f.GetSheetIndex(BaseSheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, domain.ErrEmptySnapshot
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptySnapshot
	}
	return ParseRecords(records[0], records[1:])
}

// WriteTemplate escribe la planilla modelo .xlsx: hoja "Base" solo con encabezados.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), BaseSheet); err != nil {
		return fmt.Errorf("modelo: renombrar hoja: %w", err)
	}
	header := make([]interface{}, len(TemplateHeaders))
	for i, h := range TemplateHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(BaseSheet, "A1", &header); err != nil {
		return fmt.Errorf("modelo: encabezados: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("modelo: estilo: %w", err)
	}
	if err := f.SetRowStyle(BaseSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("modelo: estilo: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(TemplateHeaders))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(BaseSheet, "A", last, 22); err != nil {
		return fmt.Errorf("modelo: ancho de columnas: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("escribir modelo: %w", err)
	}
	return nil
}

// Package excel exporta el resultado del rateo como libro .xlsx con las hojas
// Gerencial, Rateio Loja a Loja, Lojas De Saída y Lojas De Entrada.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	apprebalance "github.com/jhoicas/Rateio-api/internal/application/rebalance"
)

// Nombres de las hojas del libro exportado.
const (
	SheetSummary   = "Gerencial"
	SheetTransfers = "Rateio Loja a Loja"
	SheetOutgoing  = "Lojas De Saída"
	SheetIncoming  = "Lojas De Entrada"
)

// NoDays se escribe cuando los días de stock no están definidos (venta media cero).
const NoDays = "—"

var _ apprebalance.WorkbookGenerator = (*ExcelizeWorkbookGenerator)(nil)

// ExcelizeWorkbookGenerator implementa rebalance.WorkbookGenerator usando excelize.
type ExcelizeWorkbookGenerator struct {
	currency string
}

// NewExcelizeWorkbookGenerator construye el generador; currency prefija el formato de los valores.
func NewExcelizeWorkbookGenerator(currency string) *ExcelizeWorkbookGenerator {
	return &ExcelizeWorkbookGenerator{currency: currency}
}

// styles ids de estilo registrados en el libro.
type styles struct {
	header     int
	money      int
	total      int
	totalMoney int
}

// GenerateRebalanceWorkbook genera el libro y devuelve sus bytes.
func (g *ExcelizeWorkbookGenerator) GenerateRebalanceWorkbook(ctx context.Context, res *dto.RebalanceResponse) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("xlsx: resultado vacío")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	for _, name := range []string{SheetTransfers, SheetOutgoing, SheetIncoming} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("xlsx: hoja %s: %w", name, err)
		}
	}

	st, err := g.newStyles(f)
	if err != nil {
		return nil, err
	}

	steps := []func(*excelize.File, styles, *dto.RebalanceResponse) error{
		g.writeSummary,
		g.writeTransfers,
		writeOutgoing,
		writeIncoming,
	}
	for _, step := range steps {
		if err := step(f, st, res); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ExcelizeWorkbookGenerator) newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	moneyFmt := g.moneyFormat()

	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"00B050"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: border}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if st.totalMoney, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Border: border, CustomNumFmt: &moneyFmt,
	}); err != nil {
		return st, fmt.Errorf("xlsx: estilo: %w", err)
	}
	return st, nil
}

// moneyFormat "R$" #,##0.00 (la moneda va entre comillas como literal).
func (g *ExcelizeWorkbookGenerator) moneyFormat() string {
	if g.currency == "" {
		return "#,##0.00"
	}
	return fmt.Sprintf(`"%s "#,##0.00`, g.currency)
}

// ── Gerencial ─────────────────────────────────────────────────────────────────

func (g *ExcelizeWorkbookGenerator) writeSummary(f *excelize.File, st styles, res *dto.RebalanceResponse) error {
	w := &sheetWriter{f: f, sheet: SheetSummary, row: 1}

	sections := []struct {
		title  string
		keyCol string
		rollup dto.RollupDTO
	}{
		{"Resumo por Comprador", "Comprador", res.Summary.ByBuyer},
		{"Resumo por Loja de Saída", "Loja Saída", res.Summary.BySourceStore},
		{"Resumo por Loja de Entrada", "Loja Entrada", res.Summary.ByDestinationStore},
	}
	for _, s := range sections {
		w.title(s.title, st.header)
		if len(s.rollup.Rows) == 0 {
			w.values("Sem dados")
			w.skip(1)
			continue
		}
		w.styled(st.header, s.keyCol, "Valor Total Transferência")
		for _, kv := range s.rollup.Rows {
			w.values(kv.Key, kv.TotalValue.InexactFloat64())
			w.style("B", w.row-1, st.money)
		}
		w.values("TOTAL", s.rollup.Total.InexactFloat64())
		w.style("A", w.row-1, st.total)
		w.style("B", w.row-1, st.totalMoney)
		w.skip(1)
	}

	p := res.Params
	w.title("Parâmetros Utilizados", st.header)
	w.styled(st.header, "Parâmetro", "Valor")
	for _, kv := range [][2]string{
		{"Execução", res.RunID},
		{"Gerado em (UTC)", res.GeneratedAt.Format("02/01/2006 15:04")},
		{"Base", res.Source},
		{"Modalidade", p.Modality},
		{"Estoque mínimo saída (dias)", fmt.Sprint(p.MinDaysOut)},
		{"Estoque entrada (dias)", fmt.Sprint(p.TargetDaysIn)},
		{"Mínimo movimentação", fmt.Sprint(p.MinMove)},
		{"Considera pedidos pendentes", yesNo(p.IncludePendingPO)},
		{"Lojas de saída", strings.Join(p.OutgoingStores, ", ")},
		{"Lojas de entrada", strings.Join(p.IncomingStores, ", ")},
	} {
		w.values(kv[0], kv[1])
	}
	if w.err != nil {
		return fmt.Errorf("xlsx: %s: %w", SheetSummary, w.err)
	}
	return f.SetColWidth(SheetSummary, "A", "B", 30)
}

// ── Rateio Loja a Loja ────────────────────────────────────────────────────────

var transferColumns = []string{
	"Código Produto", "Produto", "Embal", "Quantidade Para Transferir", "Loja Saída", "Loja Entrada",
	"Estoque Atual Loja Entrada", "Estoque Alvo Loja Entrada", "Cto. Bruto Unitário", "Comprador",
	"Valor Transferência",
}

func (g *ExcelizeWorkbookGenerator) writeTransfers(f *excelize.File, st styles, res *dto.RebalanceResponse) error {
	w := &sheetWriter{f: f, sheet: SheetTransfers, row: 1}
	w.styled(st.header, toCells(transferColumns)...)
	for _, t := range res.Transfers {
		w.values(
			t.ProductCode, t.ProductName, t.PackUnit, t.Quantity, t.SourceStore, t.DestinationStore,
			num(t.DestinationStock), num(t.DestinationTargetStock), num(t.UnitCost), t.Buyer, num(t.Value),
		)
		w.style("K", w.row-1, st.money)
	}
	return w.finish(len(transferColumns))
}

// ── Lojas De Saída / Entrada ──────────────────────────────────────────────────

var outgoingColumns = []string{
	"Loja", "Código Produto", "Produto", "Média Vda/Dia", "Estoque Atual", "Dias Estoque Atual",
	"Qtd. Pend. Ped.Compra", "Liberado Saída (Caixas)", "Qtd Transferida",
	"Estoque Após Transferência", "Dias Estoque Após Transferência",
}

func writeOutgoing(f *excelize.File, st styles, res *dto.RebalanceResponse) error {
	w := &sheetWriter{f: f, sheet: SheetOutgoing, row: 1}
	w.styled(st.header, toCells(outgoingColumns)...)
	for _, d := range res.Outgoing {
		w.values(
			d.Store, d.ProductCode, d.ProductName, num(d.AvgDailySales), num(d.CurrentStock), days(d.DaysOfStock),
			num(d.PendingPO), d.Releasable, d.Transferred, num(d.StockAfter), days(d.DaysOfStockAfter),
		)
	}
	return w.finish(len(outgoingColumns))
}

var incomingColumns = []string{
	"Loja", "Código Produto", "Produto", "Média Vda/Dia", "Estoque Alvo Desejado", "Estoque Atual",
	"Necessidade Líquida (Caixas)", "Qtd Recebida", "Atendida",
}

func writeIncoming(f *excelize.File, st styles, res *dto.RebalanceResponse) error {
	w := &sheetWriter{f: f, sheet: SheetIncoming, row: 1}
	w.styled(st.header, toCells(incomingColumns)...)
	for _, d := range res.Incoming {
		w.values(
			d.Store, d.ProductCode, d.ProductName, num(d.AvgDailySales), num(d.TargetStock), num(d.CurrentStock),
			d.Needed, d.Received, yesNo(d.Fulfilled),
		)
	}
	return w.finish(len(incomingColumns))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// sheetWriter escribe filas consecutivas y guarda el primer error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) values(v ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err == nil {
		err = w.f.SetSheetRow(w.sheet, cell, &v)
	}
	w.err = err
	w.row++
}

// styled escribe una fila y le aplica el estilo celda por celda.
func (w *sheetWriter) styled(style int, v ...interface{}) {
	w.values(v...)
	if w.err != nil || len(v) == 0 {
		return
	}
	last, err := excelize.ColumnNumberToName(len(v))
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, fmt.Sprintf("A%d", w.row-1), fmt.Sprintf("%s%d", last, w.row-1), style)
}

// title título de sección combinado en A:B.
func (w *sheetWriter) title(s string, style int) {
	w.styled(style, s, "")
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, fmt.Sprintf("A%d", w.row-1), fmt.Sprintf("B%d", w.row-1))
	}
}

func (w *sheetWriter) style(col string, row, style int) {
	if w.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, row)
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func (w *sheetWriter) skip(n int) { w.row += n }

func (w *sheetWriter) finish(columns int) error {
	if w.err != nil {
		return fmt.Errorf("xlsx: %s: %w", w.sheet, w.err)
	}
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	return w.f.SetColWidth(w.sheet, "A", last, 18)
}

func toCells(labels []string) []interface{} {
	out := make([]interface{}, len(labels))
	for i, l := range labels {
		out[i] = l
	}
	return out
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func days(d *decimal.Decimal) interface{} {
	if d == nil {
		return NoDays
	}
	return d.Round(1).InexactFloat64()
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// Package pdf genera el informe del rateo de inventario tienda a tienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + id de ejecución │ fecha + origen           │
//	│  PARÁMETROS: días salida / entrada / mín. / pedidos / tiendas │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: por comprador │ por loja origen │ por loja destino  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cód | Produto | Embal | Qtd | Origem | Destino | ...  │
//	│  LOJAS DE SAÍDA: estoque, dias antes/depois, transferido      │
//	│  LOJAS DE ENTRADA: estoque alvo, necessidade, recebido        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	apprebalance "github.com/jhoicas/Rateio-api/internal/application/rebalance"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ apprebalance.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa rebalance.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	printer  *message.Printer
	currency string
}

// NewMarotoReportGenerator construye el generador. locale es una etiqueta BCP 47 (ej. "pt-BR").
func NewMarotoReportGenerator(locale, currency string) *MarotoReportGenerator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &MarotoReportGenerator{printer: message.NewPrinter(tag), currency: currency}
}

// GenerateRebalanceReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateRebalanceReport(ctx context.Context, res *dto.RebalanceResponse) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("pdf: resultado vacío")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Rateio Loja a Loja", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(res))
	m.AddRows(g.paramsRows(res.Params)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("RESUMO GERENCIAL"))
	m.AddRows(g.rollupRows("Por comprador", res.Summary.ByBuyer)...)
	m.AddRows(g.rollupRows("Por loja de origem", res.Summary.BySourceStore)...)
	m.AddRows(g.rollupRows("Por loja de destino", res.Summary.ByDestinationStore)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("TRANSFERÊNCIAS LOJA A LOJA"))
	if len(res.Transfers) == 0 {
		m.AddRows(note("Nenhuma transferência atende integralmente as lojas de destino."))
	} else {
		m.AddRows(tableRows(transferColumns, g.transferCells(res.Transfers))...)
	}

	m.AddRows(sectionTitle("LOJAS DE SAÍDA"))
	if len(res.Outgoing) == 0 {
		m.AddRows(note("Sem dados para lojas de saída."))
	} else {
		m.AddRows(tableRows(outgoingColumns, g.outgoingCells(res.Outgoing))...)
	}

	m.AddRows(sectionTitle("LOJAS DE ENTRADA"))
	if len(res.Incoming) == 0 {
		m.AddRows(note("Sem dados para lojas de entrada."))
	} else {
		m.AddRows(tableRows(incomingColumns, g.incomingCells(res.Incoming))...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReportGenerator) headerRow(res *dto.RebalanceResponse) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Rateio de Estoque: Loja a Loja", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Execução "+res.RunID, props.Text{Size: 7, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(res.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 2,
			}),
			text.New("Base: "+res.Source, props.Text{
				Size: 7, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoReportGenerator) paramsRows(p dto.ParamsEchoDTO) []core.Row {
	pending := "Não"
	if p.IncludePendingPO {
		pending = "Sim"
	}
	summary := g.printer.Sprintf("Estoque mínimo saída: %d dias   |   Estoque entrada: %d dias   |   Mín. movimentação: %d   |   Considera pedidos: %s",
		p.MinDaysOut, p.TargetDaysIn, p.MinMove, pending)
	return []core.Row{
		row.New(6).Add(col.New(12).Add(text.New(summary, props.Text{Size: 8, Top: 1}))),
		row.New(5).Add(col.New(12).Add(text.New("Lojas de saída: "+strings.Join(p.OutgoingStores, ", "), props.Text{
			Size: 7, Color: colorGray,
		}))),
		row.New(5).Add(col.New(12).Add(text.New("Lojas de entrada: "+strings.Join(p.IncomingStores, ", "), props.Text{
			Size: 7, Color: colorGray,
		}))),
	}
}

func sectionTitle(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(s, props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
	})))
}

// rollupRows: subtítulo y las líneas de rollupLines (la última en negrita si es TOTAL).
func (g *MarotoReportGenerator) rollupRows(title string, r dto.RollupDTO) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}))),
	}
	lines := g.rollupLines(r)
	for i, kv := range lines {
		style := fontstyle.Normal
		if len(r.Rows) > 0 && i == len(lines)-1 {
			style = fontstyle.Bold
		}
		rows = append(rows, row.New(5).Add(
			col.New(2),
			col.New(5).Add(text.New(kv[0], props.Text{Style: style, Size: 8})),
			col.New(3).Add(text.New(kv[1], props.Text{Style: style, Size: 8, Align: align.Right})),
			col.New(2),
		))
	}
	return rows
}

// rollupLines clave y valor por fila más la línea TOTAL; sin filas, solo "Sem dados".
func (g *MarotoReportGenerator) rollupLines(r dto.RollupDTO) [][2]string {
	if len(r.Rows) == 0 {
		return [][2]string{{"Sem dados", ""}}
	}
	out := make([][2]string, 0, len(r.Rows)+1)
	for _, kv := range r.Rows {
		out = append(out, [2]string{kv.Key, g.money(kv.TotalValue)})
	}
	return append(out, [2]string{"TOTAL", g.money(r.Total)})
}

// ── Tablas ────────────────────────────────────────────────────────────────────

// column encabezado de tabla; los tamaños de cada tabla suman 12.
type column struct {
	label string
	size  int
	align align.Type
}

var transferColumns = []column{
	{"Código", 1, align.Left},
	{"Produto", 2, align.Left},
	{"Embal", 1, align.Center},
	{"Qtd", 1, align.Right},
	{"Origem", 1, align.Center},
	{"Destino", 1, align.Center},
	{"Est. destino", 1, align.Right},
	{"Est. alvo", 1, align.Right},
	{"Custo unit.", 1, align.Right},
	{"Comprador", 1, align.Left},
	{"Valor", 1, align.Right},
}

var outgoingColumns = []column{
	{"Loja", 1, align.Center},
	{"Código", 1, align.Left},
	{"Produto", 2, align.Left},
	{"Vda/dia", 1, align.Right},
	{"Estoque", 1, align.Right},
	{"Dias", 1, align.Right},
	{"Liberado", 1, align.Right},
	{"Transf.", 1, align.Right},
	{"Est. após", 2, align.Right},
	{"Dias após", 1, align.Right},
}

var incomingColumns = []column{
	{"Loja", 1, align.Center},
	{"Código", 1, align.Left},
	{"Produto", 3, align.Left},
	{"Vda/dia", 1, align.Right},
	{"Est. alvo", 1, align.Right},
	{"Estoque", 1, align.Right},
	{"Necessidade", 2, align.Right},
	{"Recebido", 1, align.Right},
	{"Atendida", 1, align.Center},
}

func tableRows(cols []column, cells [][]string) []core.Row {
	header := row.New(6)
	for _, c := range cols {
		header.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 6, Align: c.align, Color: colorPrimary, Top: 1,
		})))
	}
	out := make([]core.Row, 0, len(cells)+1)
	out = append(out, header)
	for _, line := range cells {
		r := row.New(5)
		for i, c := range cols {
			r.Add(col.New(c.size).Add(text.New(line[i], props.Text{Size: 6, Align: c.align, Top: 0.5})))
		}
		out = append(out, r)
	}
	return out
}

func (g *MarotoReportGenerator) transferCells(ts []dto.TransferDTO) [][]string {
	out := make([][]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, []string{
			t.ProductCode,
			t.ProductName,
			t.PackUnit,
			g.printer.Sprintf("%d", t.Quantity),
			t.SourceStore,
			t.DestinationStore,
			g.number(t.DestinationStock),
			g.number(t.DestinationTargetStock),
			g.money(t.UnitCost),
			t.Buyer,
			g.money(t.Value),
		})
	}
	return out
}

func (g *MarotoReportGenerator) outgoingCells(ds []dto.OutgoingDiagnosticDTO) [][]string {
	out := make([][]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, []string{
			d.Store,
			d.ProductCode,
			d.ProductName,
			g.number(d.AvgDailySales),
			g.number(d.CurrentStock),
			g.days(d.DaysOfStock),
			g.printer.Sprintf("%d", d.Releasable),
			g.printer.Sprintf("%d", d.Transferred),
			g.number(d.StockAfter),
			g.days(d.DaysOfStockAfter),
		})
	}
	return out
}

func (g *MarotoReportGenerator) incomingCells(ds []dto.IncomingDiagnosticDTO) [][]string {
	out := make([][]string, 0, len(ds))
	for _, d := range ds {
		fulfilled := "Não"
		if d.Fulfilled {
			fulfilled = "Sim"
		}
		out = append(out, []string{
			d.Store,
			d.ProductCode,
			d.ProductName,
			g.number(d.AvgDailySales),
			g.number(d.TargetStock),
			g.number(d.CurrentStock),
			g.printer.Sprintf("%d", d.Needed),
			g.printer.Sprintf("%d", d.Received),
			fulfilled,
		})
	}
	return out
}

func note(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(s, props.Text{Size: 8, Color: colorGray, Top: 2})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// noDays días de stock no definidos (venta media cero).
const noDays = "—"

// number formatea cantidades con separadores del locale y hasta 2 decimales.
func (g *MarotoReportGenerator) number(d decimal.Decimal) string {
	r := d.Round(2)
	if r.Equal(r.Truncate(0)) {
		return g.printer.Sprintf("%d", r.IntPart())
	}
	return g.printer.Sprintf("%.2f", r.InexactFloat64())
}

func (g *MarotoReportGenerator) days(d *decimal.Decimal) string {
	if d == nil {
		return noDays
	}
	return g.printer.Sprintf("%.1f", d.Round(1).InexactFloat64())
}

// money formatea con separadores del locale: pt-BR 1234.5 → "R$ 1.234,50".
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	s := g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if g.currency == "" {
		return s
	}
	return g.currency + " " + s
}

package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
)

func sampleResponse() *dto.RebalanceResponse {
	v := decimal.RequireFromString("1234.5")
	rollup := dto.RollupDTO{Rows: []dto.RollupRowDTO{{Key: "ANA", TotalValue: v}}, Total: v}
	return &dto.RebalanceResponse{
		RunID:       "6f1c5a0e-0000-4000-8000-000000000001",
		GeneratedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Source:      "upload",
		Params: dto.ParamsEchoDTO{
			Modality: "store_to_store", MinDaysOut: 100, TargetDaysIn: 60, MinMove: 10, IncludePendingPO: true,
			OutgoingStores: []string{"L01"}, IncomingStores: []string{"L02"},
		},
		Transfers: []dto.TransferDTO{{
			ProductCode: "P1", ProductName: "Arroz Tipo 1", PackUnit: "UN", Quantity: 1500,
			SourceStore: "L01", DestinationStore: "L02", UnitCost: decimal.RequireFromString("0.823"),
			DestinationStock: decimal.NewFromInt(100), DestinationTargetStock: decimal.NewFromInt(1600),
			Buyer: "ANA", Value: v,
		}},
		Summary: dto.RebalanceSummaryDTO{ByBuyer: rollup, BySourceStore: rollup, ByDestinationStore: rollup},
		Outgoing: []dto.OutgoingDiagnosticDTO{
			{Store: "L01", ProductCode: "P1", ProductName: "Arroz Tipo 1", AvgDailySales: decimal.NewFromInt(5),
				CurrentStock: decimal.NewFromInt(2000), DaysOfStock: ptr(decimal.NewFromInt(400)), Releasable: 1500,
				Transferred: 1500, StockAfter: decimal.NewFromInt(500), DaysOfStockAfter: ptr(decimal.NewFromInt(100))},
			{Store: "L01", ProductCode: "P9", ProductName: "Feijão", CurrentStock: decimal.NewFromInt(50),
				Releasable: 50, StockAfter: decimal.NewFromInt(50)},
		},
		Incoming: []dto.IncomingDiagnosticDTO{
			{Store: "L02", ProductCode: "P1", ProductName: "Arroz Tipo 1", AvgDailySales: decimal.RequireFromString("26.6667"),
				TargetStock: decimal.NewFromInt(1600), CurrentStock: decimal.NewFromInt(100), Needed: 1500, Received: 1500, Fulfilled: true},
		},
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestGenerateRebalanceReport_PDFValido(t *testing.T) {
	g := NewMarotoReportGenerator("pt-BR", "R$")

	out, err := g.GenerateRebalanceReport(context.Background(), sampleResponse())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateRebalanceReport_SinTraslados(t *testing.T) {
	g := NewMarotoReportGenerator("pt-BR", "R$")
	res := sampleResponse()
	res.Transfers = nil

	out, err := g.GenerateRebalanceReport(context.Background(), res)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateRebalanceReport_Nil(t *testing.T) {
	_, err := NewMarotoReportGenerator("pt-BR", "R$").GenerateRebalanceReport(context.Background(), nil)
	assert.Error(t, err)
}

func TestMoney_Locale(t *testing.T) {
	v := decimal.RequireFromString("1234.5")

	assert.Equal(t, "R$ 1.234,50", NewMarotoReportGenerator("pt-BR", "R$").money(v))
	assert.Equal(t, "$ 1,234.50", NewMarotoReportGenerator("en-US", "$").money(v))
	assert.Equal(t, "1.234,50", NewMarotoReportGenerator("xx-invalid-tag-!", "").money(v))
}

func TestGenerateRebalanceReport_SinDiagnosticosNiResumen(t *testing.T) {
	res := sampleResponse()
	res.Transfers, res.Outgoing, res.Incoming = nil, nil, nil
	res.Summary = dto.RebalanceSummaryDTO{}

	out, err := NewMarotoReportGenerator("pt-BR", "R$").GenerateRebalanceReport(context.Background(), res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// ── Contenido de las tablas ───────────────────────────────────────────────────

func TestRollupLines(t *testing.T) {
	g := NewMarotoReportGenerator("pt-BR", "R$")

	assert.Equal(t, [][2]string{{"Sem dados", ""}}, g.rollupLines(dto.RollupDTO{}))
	assert.Equal(t, [][2]string{{"ANA", "R$ 1.234,50"}, {"TOTAL", "R$ 1.234,50"}}, g.rollupLines(sampleResponse().Summary.ByBuyer))
}

func TestTransferCells_IncluyeEstoqueDestinoYCosto(t *testing.T) {
	g := NewMarotoReportGenerator("pt-BR", "R$")

	cells := g.transferCells(sampleResponse().Transfers)
	require.Len(t, cells, 1)
	assert.Equal(t, []string{"P1", "Arroz Tipo 1", "UN", "1.500", "L01", "L02", "100", "1.600", "R$ 0,82", "ANA", "R$ 1.234,50"}, cells[0])
	assert.Len(t, cells[0], len(transferColumns))
}

func TestOutgoingCells_DiasNoDefinidos(t *testing.T) {
	g := NewMarotoReportGenerator("pt-BR", "R$")

	cells := g.outgoingCells(sampleResponse().Outgoing)
	require.Len(t, cells, 2)
	assert.Equal(t, []string{"L01", "P1", "Arroz Tipo 1", "5", "2.000", "400,0", "1.500", "1.500", "500", "100,0"}, cells[0])
	assert.Equal(t, noDays, cells[1][5])
	assert.Equal(t, noDays, cells[1][9])
	assert.Len(t, cells[0], len(outgoingColumns))
}

func TestIncomingCells(t *testing.T) {
	g := NewMarotoReportGenerator("pt-BR", "R$")

	cells := g.incomingCells(sampleResponse().Incoming)
	require.Len(t, cells, 1)
	assert.Equal(t, []string{"L02", "P1", "Arroz Tipo 1", "26,67", "1.600", "100", "1.500", "1.500", "Sim"}, cells[0])
	assert.Len(t, cells[0], len(incomingColumns))
}

func TestTableColumns_SumanDoce(t *testing.T) {
	for name, cols := range map[string][]column{
		"traslados": transferColumns,
		"salida":    outgoingColumns,
		"entrada":   incomingColumns,
	} {
		total := 0
		for _, c := range cols {
			total += c.size
		}
		assert.Equal(t, 12, total, name)
	}
}

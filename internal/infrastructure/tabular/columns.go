// Package tabular convierte la base de inventario (xlsx, CSV o celdas de una hoja de cálculo)
// en filas tipadas, aplicando las reglas de columnas obligatorias y valores por defecto.
package tabular

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column campo lógico de la base.
type Column int

const (
	ColStore Column = iota
	ColProductCode
	ColProductName
	ColPackUnit
	ColAvailable
	ColPendingPO
	ColAvgDailySales
	ColUnitCost
	ColBuyer
)

// TemplateHeaders encabezados de la planilla modelo (nombres originales de la base).
var TemplateHeaders = []string{
	"Loja",
	"Código Produto",
	"Produto",
	"Embal",
	"Quantidade Disponível",
	"Qtd. Pend. Ped.Compra",
	"Média Vda/Dia",
	"Cto. Bruto Unitário",
	"Comprador",
}

// aliases encabezados aceptados por columna, ya normalizados con normalizeHeader.
var aliases = map[string]Column{
	"loja":                 ColStore,
	"store":                ColStore,
	"tienda":               ColStore,
	"codigoproduto":        ColProductCode,
	"productcode":          ColProductCode,
	"codigoproducto":       ColProductCode,
	"sku":                  ColProductCode,
	"produto":              ColProductName,
	"productname":          ColProductName,
	"producto":             ColProductName,
	"embal":                ColPackUnit,
	"packunit":             ColPackUnit,
	"embalaje":             ColPackUnit,
	"quantidadedisponivel": ColAvailable,
	"availablequantity":    ColAvailable,
	"cantidaddisponible":   ColAvailable,
	"qtdpendpedcompra":     ColPendingPO,
	"pendingpoquantity":    ColPendingPO,
	"pedidopendiente":      ColPendingPO,
	"mediavdadia":          ColAvgDailySales,
	"averagedailysales":    ColAvgDailySales,
	"ventamediadiaria":     ColAvgDailySales,
	"ctobrutounitario":     ColUnitCost,
	"unitcost":             ColUnitCost,
	"costounitario":        ColUnitCost,
	"comprador":            ColBuyer,
	"buyer":                ColBuyer,
}

// normalizeHeader quita acentos, pasa a minúsculas y elimina todo lo que no sea letra o dígito:
// "Qtd. Pend. Ped.Compra" → "qtdpendpedcompra".
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, h)
	if err != nil {
		folded = h
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveHeader asocia cada columna lógica con su posición. Gana la primera coincidencia.
func resolveHeader(header []string) map[Column]int {
	pos := make(map[Column]int, len(header))
	for i, h := range header {
		col, ok := aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := pos[col]; !dup {
			pos[col] = i
		}
	}
	return pos
}

package command

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// Prefijos usados al volver a formatear comandos.
const (
	prefixSKU = "#"
	verbIn    = "入"
	verbOut   = "出"
	unitBox   = "箱"
	unitPiece = "件"
)

var (
	barcodeRe = regexp.MustCompile(`^條碼\s*:?\s*(\S+)$`)
	skuRe     = regexp.MustCompile(`^(?:#|編號\s*:?)\s*(\S+)$`)
	queryRe   = regexp.MustCompile(`^查\s*(.+)$`)
	// 出2箱1件@總倉 | 入3件 | 出1箱(倉庫=北倉)
	changeRe = regexp.MustCompile(`^(入|出)\s*(?:(\d+)\s*箱)?\s*(?:(\d+)\s*件)?\s*(?:@\s*(\S.*?)|\(\s*倉庫?\s*[=:]\s*([^)]*?)\s*\))?\s*$`)
)

// Parse convierte el texto en una intención. ok=false significa "no es un comando":
// el llamador lo ignora sin responder. Orden de prioridad: código de barras, SKU, consulta, entrada/salida.
//
// La sintaxis (dígitos, @, #, paréntesis, =) se compara sobre el texto en ancho angosto, pero los
// códigos y nombres de bodega se devuelven tal como llegaron: una respuesta rápida armada con
// FormatChange o FormatSKU reproduce exactamente el valor guardado en la base.
func Parse(text string) (Intent, bool) {
	f := fold(text)
	if f.s == "" {
		return Intent{}, false
	}
	if m := barcodeRe.FindStringSubmatchIndex(f.s); m != nil {
		return Intent{Kind: KindBarcode, Code: f.raw(m, 1)}, true
	}
	if m := skuRe.FindStringSubmatchIndex(f.s); m != nil {
		return Intent{Kind: KindSKU, Code: f.raw(m, 1)}, true
	}
	if m := queryRe.FindStringSubmatch(f.s); m != nil {
		kw := strings.TrimSpace(m[1])
		if kw == "" {
			return Intent{}, false
		}
		return Intent{Kind: KindQuery, Keyword: kw}, true
	}
	if m := changeRe.FindStringSubmatchIndex(f.s); m != nil {
		box, ok := parseCount(f.group(m, 2))
		if !ok {
			return Intent{}, false
		}
		piece, ok := parseCount(f.group(m, 3))
		if !ok {
			return Intent{}, false
		}
		action := entity.ActionIn
		if f.group(m, 1) == verbOut {
			action = entity.ActionOut
		}
		warehouse := f.raw(m, 4)
		if warehouse == "" {
			warehouse = f.raw(m, 5)
		}
		return Intent{Kind: KindChange, Change: Change{
			Action:    action,
			Box:       box,
			Piece:     piece,
			Warehouse: strings.TrimSpace(warehouse),
		}}, true
	}
	return Intent{}, false
}

// FormatChange devuelve el texto canónico del comando; Parse(FormatChange(c)) reproduce c.
// Se usa como texto de las respuestas rápidas que reingresan al flujo.
func FormatChange(c Change) string {
	var b strings.Builder
	if c.Action == entity.ActionOut {
		b.WriteString(verbOut)
	} else {
		b.WriteString(verbIn)
	}
	if c.Box > 0 {
		b.WriteString(strconv.FormatUint(uint64(c.Box), 10))
		b.WriteString(unitBox)
	}
	if c.Piece > 0 {
		b.WriteString(strconv.FormatUint(uint64(c.Piece), 10))
		b.WriteString(unitPiece)
	}
	if c.Warehouse != "" {
		b.WriteString("@")
		b.WriteString(c.Warehouse)
	}
	return b.String()
}

// FormatSKU texto de reingreso para seleccionar un SKU exacto.
func FormatSKU(sku string) string {
	return prefixSKU + sku
}

// Narrow forma en ancho angosto de un código ("ＡＧ０３１" → "AG031").
func Narrow(s string) string {
	return width.Narrow.String(s)
}

// folded texto en ancho angosto y sin espacios en los extremos. off[i] es el offset en src
// del byte i de s (más uno final), para recortar grupos capturados del texto original.
type folded struct {
	src string
	s   string
	off []int
}

func fold(text string) folded {
	var b strings.Builder
	off := make([]int, 0, len(text)+1)
	for i, r := range text {
		if n := width.LookupRune(r).Narrow(); n != 0 {
			r = n
		}
		start := b.Len()
		b.WriteRune(r)
		for k := start; k < b.Len(); k++ {
			off = append(off, i)
		}
	}
	off = append(off, len(text))

	s := b.String()
	lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	trimmed := strings.TrimRightFunc(s[lead:], unicode.IsSpace)
	return folded{src: text, s: trimmed, off: off[lead : lead+len(trimmed)+1]}
}

// group grupo n sobre el texto angosto; "" si no participó.
func (f folded) group(m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return f.s[m[2*n]:m[2*n+1]]
}

// raw grupo n recortado del texto original.
func (f folded) raw(m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return f.src[f.off[m[2*n]]:f.off[m[2*n+1]]]
}

func parseCount(s string) (uint, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

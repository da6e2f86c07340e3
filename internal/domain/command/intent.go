// Package command interpreta los mensajes de chat como comandos del bot de inventario.
// Es puro: sin I/O ni estado.
package command

import "fmt"

// Kind tipo de intención reconocida.
type Kind int

const (
	KindQuery Kind = iota + 1
	KindBarcode
	KindSKU
	KindChange
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindBarcode:
		return "barcode"
	case KindSKU:
		return "sku"
	case KindChange:
		return "change"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Change entrada (in) o salida (out) de stock sobre el último producto seleccionado.
// Box y Piece valen 0 cuando no se indican; Warehouse vacío = sin bodega.
type Change struct {
	Action    string // entity.ActionIn | entity.ActionOut
	Box       uint
	Piece     uint
	Warehouse string
}

// IsZero indica que no se indicó cantidad.
func (c Change) IsZero() bool {
	return c.Box == 0 && c.Piece == 0
}

// Intent resultado del parser. Solo el campo correspondiente a Kind tiene valor.
type Intent struct {
	Kind    Kind
	Keyword string // KindQuery
	Code    string // KindBarcode, KindSKU
	Change  Change // KindChange
}

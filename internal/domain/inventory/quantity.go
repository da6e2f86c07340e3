package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatQuantity representa cajas y piezas como texto para el chat ("2箱1件").
// Componentes en cero se omiten; si ambos son cero devuelve "0件".
func FormatQuantity(box, piece int) string {
	var b strings.Builder
	if box != 0 {
		fmt.Fprintf(&b, "%d箱", box)
	}
	if piece != 0 || box == 0 {
		fmt.Fprintf(&b, "%d件", piece)
	}
	return b.String()
}

// TotalPieces convierte cajas+piezas a piezas según las unidades por caja del producto.
// Con unitsPerBox <= 0 las cajas no se pueden convertir y se ignoran.
func TotalPieces(box, piece, unitsPerBox int) int {
	if unitsPerBox <= 0 {
		return piece
	}
	return box*unitsPerBox + piece
}

// StockValue valor del stock a precio unitario: TotalPieces * UnitPrice.
func StockValue(box, piece, unitsPerBox int, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(TotalPieces(box, piece, unitsPerBox))).Mul(unitPrice)
}

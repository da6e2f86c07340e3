package entity

import "github.com/shopspring/decimal"

// Product entrada del catálogo (solo lectura para el bot).
type Product struct {
	SKU         string // código único del producto
	Name        string
	Barcode     string
	UnitsPerBox int             // piezas por caja
	UnitPrice   decimal.Decimal // precio unitario por pieza
}

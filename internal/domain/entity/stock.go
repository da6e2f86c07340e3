package entity

// StockLevel representa el stock actual de un SKU en una sucursal, en cajas y piezas.
// Solo se modifica vía los procedimientos remotos; el bot nunca calcula stock nuevo localmente.
type StockLevel struct {
	Box   int
	Piece int
}

// IsEmpty indica si no hay cajas ni piezas.
func (s StockLevel) IsEmpty() bool {
	return s.Box <= 0 && s.Piece <= 0
}

package entity

// WarehouseUnspecified nombre usado cuando ninguna bodega tiene lotes con stock.
const WarehouseUnspecified = "未指定"

// WarehouseStock suma de los lotes de un SKU en una bodega de la sucursal.
type WarehouseStock struct {
	Warehouse string
	Box       int
	Piece     int
}

// HasStock indica si la bodega tiene cajas o piezas.
func (w WarehouseStock) HasStock() bool {
	return w.Box > 0 || w.Piece > 0
}

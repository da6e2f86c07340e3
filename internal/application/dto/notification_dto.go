package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEventPayload registro de un movimiento para la hoja de cálculo externa.
type StockEventPayload struct {
	Branch      string
	SKU         string
	ProductName string
	UnitsPerBox int
	UnitPrice   decimal.Decimal
	InBox       int
	InPiece     int
	OutBox      int
	OutPiece    int
	StockBox    int
	StockPiece  int
	Warehouse   string
	Cost        decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Acciones de movimiento desde el chat.
const (
	ActionIn  = "in"
	ActionOut = "out"
)

// Unidades de medida del consumo FIFO.
const (
	UOMBox   = "box"
	UOMPiece = "piece"
)

// StockAdjustment entrada del procedimiento de ajuste agregado (entradas).
type StockAdjustment struct {
	Branch     string
	SKU        string
	DeltaBox   int
	DeltaPiece int
	UserID     string
	Source     string
}

// LotConsumption entrada del procedimiento de consumo FIFO de lotes (salidas).
type LotConsumption struct {
	Branch    string
	SKU       string
	UOM       string // box | piece
	Quantity  int
	Warehouse string
	ActorID   uuid.UUID
	Source    string
	At        time.Time
}

// ConsumptionResult respuesta del consumo FIFO.
type ConsumptionResult struct {
	Consumed int
	Cost     decimal.Decimal
}

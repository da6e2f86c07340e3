package repository

import (
	"context"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// StockRepository puerto para consultar el stock por sucursal+SKU.
type StockRepository interface {
	// Get devuelve el stock actual; sin fila devuelve cero/cero.
	Get(ctx context.Context, branch, sku string) (entity.StockLevel, error)
	// InStockSKUs conjunto de SKUs con cajas o piezas > 0 en la sucursal. Se recalcula en cada llamada.
	InStockSKUs(ctx context.Context, branch string) (map[string]struct{}, error)
}

// StockMutationRepository puerto de los procedimientos remotos que modifican stock.
// La atomicidad es la que garantiza cada procedimiento; no hay transacción entre llamadas.
type StockMutationRepository interface {
	// Adjust ajuste agregado (entradas). Devuelve nil si el procedimiento no devuelve el stock nuevo.
	Adjust(ctx context.Context, in entity.StockAdjustment) (*entity.StockLevel, error)
	// ConsumeLots consumo FIFO de lotes para una unidad de medida (salidas).
	ConsumeLots(ctx context.Context, in entity.LotConsumption) (entity.ConsumptionResult, error)
}

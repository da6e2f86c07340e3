package repository

import (
	"context"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// WarehouseRepository puerto de lectura de lotes agregados por bodega.
type WarehouseRepository interface {
	// ListLotTotals suma de lotes por bodega para sucursal+SKU, ordenado por nombre de bodega.
	ListLotTotals(ctx context.Context, branch, sku string) ([]entity.WarehouseStock, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo agregados de lotes por bodega.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// ListLotTotals suma cajas/piezas restantes de los lotes de un SKU, agrupadas por bodega.
// Lotes sin bodega se agrupan como entity.WarehouseUnspecified.
func (r *WarehouseRepo) ListLotTotals(ctx context.Context, branch, sku string) ([]entity.WarehouseStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(NULLIF(warehouse, ''), $3) AS wh,
		       COALESCE(SUM(qty_box_left), 0)::int,
		       COALESCE(SUM(qty_piece_left), 0)::int
		FROM inventory_lots
		WHERE branch = $1 AND sku = $2
		GROUP BY wh
		ORDER BY wh`,
		branch, sku, entity.WarehouseUnspecified,
	)
	if err != nil {
		return nil, fmt.Errorf("list lot totals: %w", err)
	}
	defer rows.Close()

	var list []entity.WarehouseStock
	for rows.Next() {
		var w entity.WarehouseStock
		if err := rows.Scan(&w.Warehouse, &w.Box, &w.Piece); err != nil {
			return nil, fmt.Errorf("scan lot totals: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

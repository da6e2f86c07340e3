package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo lectura del stock agregado por sucursal (tabla inventory).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene cajas/piezas de un SKU en la sucursal. Sin fila = 0/0.
func (r *StockRepo) Get(ctx context.Context, branch, sku string) (entity.StockLevel, error) {
	var s entity.StockLevel
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(box, 0), COALESCE(piece, 0) FROM inventory WHERE branch = $1 AND sku = $2`,
		branch, sku,
	).Scan(&s.Box, &s.Piece)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.StockLevel{}, nil
		}
		return entity.StockLevel{}, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// InStockSKUs conjunto de SKUs con cajas o piezas mayores a cero en la sucursal.
func (r *StockRepo) InStockSKUs(ctx context.Context, branch string) (map[string]struct{}, error) {
	rows, err := r.q.Query(ctx,
		`SELECT sku FROM inventory WHERE branch = $1 AND (box > 0 OR piece > 0)`, branch)
	if err != nil {
		return nil, fmt.Errorf("list in-stock skus: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		set[sku] = struct{}{}
	}
	return set, rows.Err()
}

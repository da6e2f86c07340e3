package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.StockMutationRepository = (*StockMutationRepo)(nil)

// StockMutationRepo invoca los procedimientos almacenados que modifican stock.
// Bloqueos y transacciones son responsabilidad de cada procedimiento.
type StockMutationRepo struct {
	q Querier
}

// NewStockMutationRepository construye el adaptador.
func NewStockMutationRepository(q Querier) *StockMutationRepo {
	return &StockMutationRepo{q: q}
}

// Adjust ejecuta exec_stock_adjust. Devuelve nil si el procedimiento no informa el stock nuevo.
func (r *StockMutationRepo) Adjust(ctx context.Context, in entity.StockAdjustment) (*entity.StockLevel, error) {
	var box, piece *int
	err := r.q.QueryRow(ctx,
		`SELECT new_box, new_piece FROM exec_stock_adjust($1, $2, $3, $4, $5, $6)`,
		in.Branch, in.SKU, in.DeltaBox, in.DeltaPiece, in.UserID, in.Source,
	).Scan(&box, &piece)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapRPC("exec_stock_adjust", err)
	}
	if box == nil || piece == nil {
		return nil, nil
	}
	return &entity.StockLevel{Box: *box, Piece: *piece}, nil
}

// ConsumeLots ejecuta fifo_consume_lots para una unidad de medida.
func (r *StockMutationRepo) ConsumeLots(ctx context.Context, in entity.LotConsumption) (entity.ConsumptionResult, error) {
	var res entity.ConsumptionResult
	var cost decimal.NullDecimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(consumed, 0), cost FROM fifo_consume_lots($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.Branch, in.SKU, in.UOM, in.Quantity, in.Warehouse, in.ActorID, in.Source, in.At,
	).Scan(&res.Consumed, &cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ConsumptionResult{Cost: decimal.Zero}, nil
		}
		return entity.ConsumptionResult{}, wrapRPC("fifo_consume_lots", err)
	}
	res.Cost = decimal.Zero
	if cost.Valid {
		res.Cost = cost.Decimal
	}
	return res, nil
}

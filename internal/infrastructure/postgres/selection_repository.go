package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.SelectionRepository = (*SelectionRepo)(nil)

// SelectionRepo último producto seleccionado por (usuario, sucursal) en bot_last_selected.
type SelectionRepo struct {
	q Querier
}

// NewSelectionRepository construye el adaptador.
func NewSelectionRepository(q Querier) *SelectionRepo {
	return &SelectionRepo{q: q}
}

// Upsert guarda el SKU en una sola sentencia; una fila por (usuario, sucursal).
func (r *SelectionRepo) Upsert(ctx context.Context, userID, branch, sku string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bot_last_selected (user_id, branch, sku, selected_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, branch)
		DO UPDATE SET sku = EXCLUDED.sku, selected_at = EXCLUDED.selected_at`,
		userID, branch, sku,
	)
	if err != nil {
		return fmt.Errorf("upsert last selected: %w", err)
	}
	return nil
}

// GetLast devuelve el último SKU seleccionado, o found=false.
func (r *SelectionRepo) GetLast(ctx context.Context, userID, branch string) (string, bool, error) {
	var sku string
	err := r.q.QueryRow(ctx,
		`SELECT sku FROM bot_last_selected WHERE user_id = $1 AND branch = $2`, userID, branch,
	).Scan(&sku)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get last selected: %w", err)
	}
	return sku, sku != "", nil
}

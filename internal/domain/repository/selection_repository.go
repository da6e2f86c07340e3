package repository

import "context"

// SelectionRepository último producto seleccionado por (usuario, sucursal).
// Upsert debe ser visible de inmediato para GetLast (lectura después de escritura).
type SelectionRepository interface {
	Upsert(ctx context.Context, userID, branch, sku string) error
	// GetLast devuelve found=false si no hay selección.
	GetLast(ctx context.Context, userID, branch string) (sku string, found bool, err error)
}

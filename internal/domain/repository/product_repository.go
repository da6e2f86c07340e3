package repository

import (
	"context"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos (DIP).
// Los métodos Get* devuelven (nil, nil) si no existe.
type ProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// SearchByName coincidencia parcial sin distinguir mayúsculas sobre el nombre.
	SearchByName(ctx context.Context, keyword string, limit int) ([]*entity.Product, error)
	// SearchBySKU coincidencia parcial sin distinguir mayúsculas sobre el SKU.
	SearchBySKU(ctx context.Context, code string, limit int) ([]*entity.Product, error)
}

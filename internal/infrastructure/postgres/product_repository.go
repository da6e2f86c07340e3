package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `sku, name, COALESCE(barcode, ''), COALESCE(units_per_box, 0), COALESCE(unit_price, 0)`

// GetBySKU obtiene un producto por SKU exacto. (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// GetByBarcode obtiene un producto por código de barras exacto. (nil, nil) si no existe.
func (r *ProductRepo) GetByBarcode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1 LIMIT 1`, code)
}

// SearchByName coincidencia parcial (sin distinguir mayúsculas) sobre el nombre.
func (r *ProductRepo) SearchByName(ctx context.Context, keyword string, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE name ILIKE $1 ORDER BY sku LIMIT $2`,
		likePattern(keyword), limit)
}

// SearchBySKU coincidencia parcial sobre el SKU.
func (r *ProductRepo) SearchBySKU(ctx context.Context, code string, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE sku ILIKE $1 ORDER BY sku LIMIT $2`,
		likePattern(code), limit)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.SKU, &p.Name, &p.Barcode, &p.UnitsPerBox, &p.UnitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, pattern string, limit int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Barcode, &p.UnitsPerBox, &p.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

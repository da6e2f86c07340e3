package postgres

import (
	"context"

	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración remota clave/valor (get_app_settings).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetAll devuelve todas las claves. Valores NULL se omiten.
func (r *SettingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT key, value FROM get_app_settings()`)
	if err != nil {
		return nil, wrapRPC("get_app_settings", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key string
		var value *string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, wrapRPC("get_app_settings", err)
		}
		if value != nil {
			out[key] = *value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRPC("get_app_settings", err)
	}
	return out, nil
}

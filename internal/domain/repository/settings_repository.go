package repository

import "context"

// SettingsRepository lectura de la configuración remota clave/valor.
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

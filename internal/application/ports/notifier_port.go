package ports

import (
	"context"

	"github.com/jhoicas/inventario-bot/internal/application/dto"
)

// StockNotifier sumidero de notificaciones de movimientos (hoja de cálculo).
// Notify nunca falla hacia el llamador ni bloquea la respuesta al usuario.
type StockNotifier interface {
	Notify(ctx context.Context, payload dto.StockEventPayload)
}

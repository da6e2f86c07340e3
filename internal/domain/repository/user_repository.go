package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// UserRepository puerto de usuarios de chat y vínculos de sucursal (DIP).
type UserRepository interface {
	// GetByID devuelve (nil, nil) si el usuario no está registrado.
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	// Create auto-registro con valores por defecto. Nunca modifica rol ni lista negra de un usuario existente.
	Create(ctx context.Context, user *entity.User) error
	// GetGroupBranch sucursal vinculada a un grupo o sala; "" si no hay vínculo.
	GetGroupBranch(ctx context.Context, groupOrRoomID string) (string, error)
	// GetBackingUserID UUID del usuario equivalente en el sistema de inventario.
	// Sin vínculo devuelve domain.ErrIdentityNotMapped.
	GetBackingUserID(ctx context.Context, userID string) (uuid.UUID, error)
}

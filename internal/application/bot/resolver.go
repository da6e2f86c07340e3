package bot

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-bot/internal/domain/entity"
)

// Resolution contexto organizacional del remitente.
type Resolution struct {
	Identity entity.Identity
	Branch   string // "" = sin sucursal vinculada
	Role     string
	Blocked  bool
	// UnboundMessage texto a responder cuando Branch está vacío (distinto para grupo e individuo).
	UnboundMessage string
}

// IsManager indica si el remitente puede registrar entradas y ver productos sin stock.
func (r Resolution) IsManager() bool {
	return r.Role == entity.RoleManager
}

// Resolve obtiene rol, bloqueo y sucursal del remitente.
// En grupos el rol sale del registro personal (si existe) y la sucursal del vínculo del grupo.
// En chats individuales todo sale del registro personal; si no existe se auto-registra.
func (uc *BotUseCase) Resolve(ctx context.Context, id entity.Identity) (Resolution, error) {
	res := Resolution{Identity: id, Role: entity.RoleUser}

	if id.IsGroup() {
		if id.UserID != "" {
			u, err := uc.users.GetByID(ctx, id.UserID)
			if err != nil {
				return res, fmt.Errorf("buscar usuario: %w", err)
			}
			if u != nil {
				res.Role = normalizeRole(u.Role)
				res.Blocked = u.Blacklisted
			}
		}
		if res.Blocked {
			return res, nil
		}
		branch, err := uc.users.GetGroupBranch(ctx, id.GroupOrRoomID)
		if err != nil {
			return res, fmt.Errorf("buscar sucursal del grupo: %w", err)
		}
		res.Branch = branch
		if branch == "" {
			res.UnboundMessage = msgGroupUnbound
		}
		return res, nil
	}

	if id.UserID == "" {
		res.UnboundMessage = msgUserUnbound
		return res, nil
	}
	u, err := uc.users.GetByID(ctx, id.UserID)
	if err != nil {
		return res, fmt.Errorf("buscar usuario: %w", err)
	}
	if u == nil {
		u = entity.NewDefaultUser(id.UserID)
		if err := uc.users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("auto-registro de usuario: %w", err)
		}
		uc.log.Info().Str("user_id", id.UserID).Msg("usuario auto-registrado")
	}
	res.Role = normalizeRole(u.Role)
	res.Blocked = u.Blacklisted
	res.Branch = u.Branch
	if res.Branch == "" {
		res.UnboundMessage = msgUserUnbound
	}
	return res, nil
}

func normalizeRole(role string) string {
	if role == entity.RoleManager {
		return entity.RoleManager
	}
	return entity.RoleUser
}

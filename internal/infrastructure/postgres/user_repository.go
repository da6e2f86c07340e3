package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bot/internal/domain"
	"github.com/jhoicas/inventario-bot/internal/domain/entity"
	"github.com/jhoicas/inventario-bot/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios de chat, vínculos de grupo y mapeo a usuarios del sistema de inventario.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene el registro del usuario de chat. (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, `
		SELECT user_id, COALESCE(role, 'user'), COALESCE(blacklisted, false), COALESCE(branch, '')
		FROM line_users WHERE user_id = $1`, userID,
	).Scan(&u.UserID, &u.Role, &u.Blacklisted, &u.Branch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Create auto-registra un usuario. Si otro mensaje lo registró primero no es error.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	var branch *string
	if u.Branch != "" {
		branch = &u.Branch
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO line_users (user_id, role, blacklisted, branch, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO NOTHING`,
		u.UserID, u.Role, u.Blacklisted, branch,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetGroupBranch sucursal vinculada a un grupo o sala. "" si no hay vínculo.
func (r *UserRepo) GetGroupBranch(ctx context.Context, groupOrRoomID string) (string, error) {
	var branch string
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(branch, '') FROM line_group_branches WHERE group_id = $1`, groupOrRoomID,
	).Scan(&branch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get group branch: %w", err)
	}
	return branch, nil
}

// GetBackingUserID uuid del usuario del sistema de inventario asociado al usuario de chat.
func (r *UserRepo) GetBackingUserID(ctx context.Context, userID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.q.QueryRow(ctx,
		`SELECT user_uuid FROM line_user_map WHERE line_user_id = $1`, userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrIdentityNotMapped
		}
		return uuid.Nil, fmt.Errorf("get backing user: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, domain.ErrIdentityNotMapped
	}
	return id, nil
}

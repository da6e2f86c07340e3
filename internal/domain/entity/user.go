package entity

// Roles válidos para User.
const (
	RoleUser    = "user"
	RoleManager = "manager"
)

// User registro de un usuario de chat. El rol y la lista negra los administra el sistema externo;
// el bot solo los lee (y registra usuarios nuevos con valores por defecto).
type User struct {
	UserID      string
	Role        string // user, manager
	Blacklisted bool
	Branch      string // vacío = sin sucursal vinculada
}

// IsManager indica si el usuario tiene rol de encargado.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// NewDefaultUser construye el registro por defecto para el auto-registro.
func NewDefaultUser(userID string) *User {
	return &User{UserID: userID, Role: RoleUser}
}

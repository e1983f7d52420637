package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleSalesManager = "sales_manager"
	RoleSalesRep     = "sales_rep"
)

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSalesManager || role == RoleSalesRep
}

// User representa un usuario del sistema (representante o gerente de ventas).
// Nunca se elimina físicamente: la baja se hace con IsActive = false.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, sales_manager, sales_rep
	IsActive     bool
	LastLoginAt  *time.Time // nil = nunca inició sesión
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

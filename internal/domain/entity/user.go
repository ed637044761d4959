package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleCompras    = "compras"
	RoleAlmacen    = "almacen"
	RoleProduccion = "produccion"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, compras, almacen, produccion
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si role es uno de los roles del sistema.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCompras, RoleAlmacen, RoleProduccion:
		return true
	}
	return false
}

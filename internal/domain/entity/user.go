package entity

import "time"

// Roles de usuario.
const (
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// User representa un usuario del punto de venta.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	DisplayName  string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

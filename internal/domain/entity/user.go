package entity

import "time"

// Roles de usuario. Solo admin puede registrar ajustes manuales.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// User cuenta de acceso al sistema. La identidad del actor de cada movimiento
// proviene del usuario autenticado.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

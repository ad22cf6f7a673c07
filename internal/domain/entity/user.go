package entity

// Roles válidos para User.
const (
	RoleAdmin  = "admin"  // puede mover la fecha de bloqueo
	RoleViewer = "viewer" // solo consultas
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User operador del servicio.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string
}

// IsActive indica si el usuario puede autenticarse.
func (u *User) IsActive() bool { return u != nil && u.Status == UserStatusActive }

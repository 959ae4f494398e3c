package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleStaff    = "staff"
	RoleOperator = "operator"
)

// User representa un usuario del sistema (pertenece a una Organization).
// El login es por teléfono; el email es opcional pero único si se informa.
type User struct {
	ID             string
	OrganizationID string
	Username       string
	Email          string
	Phone          string
	FullName       string
	FirstName      string
	LastName       string
	Address        string
	PasswordHash   string // bcrypt hash
	Role           string
	ProfilePicture string // clave del objeto en el storage; vacío = sin foto
	IsOwner        bool
	IsVerified     bool
	IsActive       bool
	IsTerminated   bool
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff, RoleOperator:
		return true
	}
	return false
}

// DisplayName nombre para mostrar: full_name o nombre + apellido.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// LoginBlockReason verifica los flags de la cuenta en el orden en que se reportan al cliente.
// Devuelve el motivo del rechazo o "" si puede ingresar.
func (u *User) LoginBlockReason() string {
	switch {
	case !u.IsVerified:
		return "not_verified"
	case !u.IsActive:
		return "inactive"
	case u.IsTerminated:
		return "terminated"
	}
	return ""
}

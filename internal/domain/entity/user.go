package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleApprover = "approver"
	RoleViewer   = "viewer"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Roles lista los roles en orden de privilegio decreciente.
var Roles = []string{RoleAdmin, RoleEditor, RoleApprover, RoleViewer}

// IsValidRole informa si el rol existe.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema (pertenece a un Business).
type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Role         string // admin, editor, approver, viewer
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre para mostrar: "Nombre Apellido" capitalizado, o el email si no hay nombre.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full == "" {
		return u.Email
	}
	// Un Caser guarda estado; se crea uno por llamada.
	return cases.Title(language.Und).String(strings.ToLower(full))
}

// Identity devuelve la identidad de sesión del usuario.
func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		Role:        u.Role,
		BusinessID:  u.BusinessID,
	}
}

package dto

import "github.com/Mutesi02/product-marketplace/internal/domain/entity"

// RegisterRequest alta pública: crea la empresa y su primer usuario (admin).
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	BusinessName    string `json:"business_name"`
	Industry        string `json:"industry"`
	CompanySize     string `json:"company_size"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT, identidad de sesión y usuario.
type LoginResponse struct {
	Token    string          `json:"token"`
	Identity entity.Identity `json:"identity"`
	User     UserResponse    `json:"user"`
}

// SessionResponse identidad actual; null si no hay sesión válida.
type SessionResponse struct {
	Identity *entity.Identity `json:"identity"`
}

// ProfileResponse salida de GET /api/auth/me.
type ProfileResponse struct {
	User     UserResponse     `json:"user"`
	Business BusinessResponse `json:"business"`
}

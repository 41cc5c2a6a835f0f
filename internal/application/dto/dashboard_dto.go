package dto

import (
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/lifecycle"
)

// Tipos de dashboard según el rol.
const (
	DashboardAdmin    = "admin"
	DashboardEditor   = "editor"
	DashboardApprover = "approver"
	DashboardViewer   = "viewer"
)

// DashboardResponse respuesta de GET /api/dashboard.
// Stats cambia de forma según el rol: las claves presentes son las del dashboard_type.
type DashboardResponse struct {
	User          entity.Identity        `json:"user"`
	Permissions   lifecycle.Capabilities `json:"permissions"`
	DashboardType string                 `json:"dashboard_type"`
	Stats         map[string]int         `json:"stats"`
}

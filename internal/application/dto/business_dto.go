package dto

import (
	"time"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

// BusinessResponse salida de una empresa.
type BusinessResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	CompanySize string    `json:"company_size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToBusinessResponse mapea la entidad a la salida HTTP.
func ToBusinessResponse(b *entity.Business) BusinessResponse {
	return BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		Industry:    b.Industry,
		CompanySize: b.CompanySize,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

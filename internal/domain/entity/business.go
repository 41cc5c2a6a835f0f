package entity

import "time"

// Business representa la organización a la que pertenecen usuarios y productos (tenant).
type Business struct {
	ID          string
	Name        string
	Industry    string
	CompanySize string // rango libre, ej. "50-100"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

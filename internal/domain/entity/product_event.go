package entity

import "time"

// ProductEvent registro de auditoría de una acción sobre un producto.
type ProductEvent struct {
	ID         string
	ProductID  string
	BusinessID string
	ActorID    string
	Action     string
	FromStatus string // vacío en create
	ToStatus   string // vacío en delete
	Reason     string
	CreatedAt  time.Time
}

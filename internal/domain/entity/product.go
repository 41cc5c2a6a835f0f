package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un producto.
const (
	StatusDraft           = "draft"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
)

// Statuses lista todos los estados conocidos.
var Statuses = []string{StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected}

// IsValidStatus informa si el estado existe.
func IsValidStatus(s string) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// Product producto del catálogo sujeto a aprobación.
// OwnerID y BusinessID no cambian tras la creación; Version se incrementa en cada mutación
// y sirve de token compare-and-set.
type Product struct {
	ID          string
	BusinessID  string
	OwnerID     string
	Name        string
	Description string
	Category    string // opcional, en minúsculas
	Price       decimal.Decimal
	Status      string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone devuelve una copia independiente.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

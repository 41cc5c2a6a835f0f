package lifecycle

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
)

const (
	// MaxNameLength longitud máxima del nombre del producto.
	MaxNameLength = 200
	// MaxCategoryLength longitud máxima de la categoría.
	MaxCategoryLength = 100
)

// MaxPrice cota superior (exclusiva) del precio: NUMERIC(10,2).
var MaxPrice = decimal.New(1, 8)

// Draft campos de entrada para crear un producto.
type Draft struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
}

// Patch campos opcionales de una edición; nil = sin cambio.
type Patch struct {
	Name        *string
	Description *string
	Category    *string // "" la quita
	Price       *decimal.Decimal
}

// IsEmpty informa si el patch no modifica ningún campo.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil && p.Price == nil
}

// NormalizeCategory recorta y pasa a minúsculas; el filtro de listados usa la misma forma.
func NormalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func validateCategory(c string) error {
	if utf8.RuneCountInString(c) > MaxCategoryLength {
		return domain.NewValidationError("category", fmt.Sprintf("supera %d caracteres", MaxCategoryLength))
	}
	return nil
}

// Authorize valida que la identidad pueda aplicar la acción sobre el producto.
// Orden de verificación: rol → empresa → propiedad/alcance del editor → estado.
// Para ActionCreate el producto puede ser nil.
func Authorize(id entity.Identity, p *entity.Product, a Action) error {
	r, ok := policy[a]
	if !ok {
		return fmt.Errorf("%w: acción desconocida %q", domain.ErrInvalidInput, a)
	}
	if id.IsZero() {
		return domain.ErrUnauthorized
	}
	if !contains(r.roles, id.Role) {
		return fmt.Errorf("%w: el rol %q no puede ejecutar %s", domain.ErrForbidden, id.Role, a)
	}
	if a == ActionCreate {
		return nil
	}
	if p == nil {
		return domain.ErrNotFound
	}
	// Otra empresa: el producto no existe para esta identidad.
	if id.BusinessID != p.BusinessID {
		return domain.ErrNotFound
	}
	if id.Role == entity.RoleEditor {
		if r.editorOwnerOnly && id.ID != p.OwnerID {
			return fmt.Errorf("%w: solo el propietario puede ejecutar %s", domain.ErrForbidden, a)
		}
		if len(r.editorScope) > 0 && !contains(r.editorScope, p.Status) {
			return fmt.Errorf("%w: un editor no puede ejecutar %s sobre un producto %s", domain.ErrForbidden, a, p.Status)
		}
	}
	if !contains(r.from, p.Status) {
		return fmt.Errorf("%w: %s no aplica a un producto %s", domain.ErrInvalidState, a, p.Status)
	}
	return nil
}

// NewProduct ejecuta la transición create: autoriza, valida y construye el producto en draft.
func NewProduct(id entity.Identity, in Draft, productID string, now time.Time) (*entity.Product, error) {
	if err := Authorize(id, nil, ActionCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if err := ValidateFields(name, description, in.Price); err != nil {
		return nil, err
	}
	category := NormalizeCategory(in.Category)
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	return &entity.Product{
		ID:          productID,
		BusinessID:  id.BusinessID,
		OwnerID:     id.ID,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       in.Price,
		Status:      entity.StatusDraft,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply ejecuta una transición sobre una copia del producto y la devuelve.
// El patch solo se considera en ActionEdit. El original no se modifica.
func Apply(id entity.Identity, p *entity.Product, a Action, patch Patch, now time.Time) (*entity.Product, error) {
	if a == ActionCreate {
		return nil, fmt.Errorf("%w: create no se aplica sobre un producto existente", domain.ErrInvalidInput)
	}
	if err := Authorize(id, p, a); err != nil {
		return nil, err
	}
	out := p.Clone()
	if a == ActionEdit {
		if patch.IsEmpty() {
			return nil, domain.NewValidationError("", "no hay campos para actualizar")
		}
		if patch.Name != nil {
			out.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			out.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Price != nil {
			out.Price = *patch.Price
		}
		if patch.Category != nil {
			out.Category = NormalizeCategory(*patch.Category)
			if err := validateCategory(out.Category); err != nil {
				return nil, err
			}
		}
		if err := ValidateFields(out.Name, out.Description, out.Price); err != nil {
			return nil, err
		}
	}
	if next, _ := Next(p.Status, a); next != "" {
		out.Status = next
	}
	out.Version = p.Version + 1
	out.UpdatedAt = now
	return out, nil
}

// ValidateFields aplica las restricciones de campos de un producto.
func ValidateFields(name, description string, price decimal.Decimal) error {
	if name == "" {
		return domain.NewValidationError("name", "es obligatorio")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return domain.NewValidationError("name", fmt.Sprintf("supera %d caracteres", MaxNameLength))
	}
	if description == "" {
		return domain.NewValidationError("description", "es obligatoria")
	}
	if !price.IsPositive() {
		return domain.NewValidationError("price", "debe ser mayor que 0")
	}
	if !price.Equal(price.Round(2)) {
		return domain.NewValidationError("price", "admite máximo 2 decimales")
	}
	if price.GreaterThanOrEqual(MaxPrice) {
		return domain.NewValidationError("price", "excede el máximo permitido")
	}
	return nil
}

// CanView informa si la identidad puede leer el producto. Una identidad vacía es un visitante anónimo.
// Los productos aprobados son públicos; el resto solo para approver/admin de la misma empresa
// o el editor propietario.
func CanView(id entity.Identity, p *entity.Product) bool {
	if p == nil {
		return false
	}
	if p.Status == entity.StatusApproved {
		return true
	}
	if id.IsZero() || id.BusinessID != p.BusinessID {
		return false
	}
	switch id.Role {
	case entity.RoleAdmin, entity.RoleApprover:
		return true
	case entity.RoleEditor:
		return id.ID == p.OwnerID
	}
	return false
}

// Package seed crea la empresa y los usuarios demo (uno por rol). Es idempotente.
package seed

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Mutesi02/product-marketplace/internal/application/auth"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

const (
	DemoBusinessName = "Test Company"
	DemoPassword     = "password123"
)

// DemoUser usuario demo.
type DemoUser struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// DemoUsers usuarios creados por Run.
var DemoUsers = []DemoUser{
	{Email: "admin@test.com", FirstName: "Admin", LastName: "User", Role: entity.RoleAdmin},
	{Email: "editor@test.com", FirstName: "Editor", LastName: "User", Role: entity.RoleEditor},
	{Email: "approver@test.com", FirstName: "Approver", LastName: "User", Role: entity.RoleApprover},
	{Email: "viewer@test.com", FirstName: "Viewer", LastName: "User", Role: entity.RoleViewer},
}

// Result resumen de lo creado.
type Result struct {
	BusinessID   string
	CreatedUsers int
}

// Run crea la empresa demo si no existe y los usuarios que falten.
// Un usuario existente conserva su contraseña; solo se corrige su rol.
func Run(ctx context.Context, tx repository.TxRunner, log *logger.Logger) (*Result, error) {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	err = tx.RunAccount(ctx, func(businesses repository.BusinessRepository, users repository.UserRepository) error {
		now := time.Now().UTC()
		business, err := businesses.GetByName(ctx, DemoBusinessName)
		if err != nil {
			return err
		}
		if business == nil {
			business = &entity.Business{
				ID:          uuid.New().String(),
				Name:        DemoBusinessName,
				Industry:    "Technology",
				CompanySize: "50-100",
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := businesses.Create(ctx, business); err != nil {
				return err
			}
		}
		res.BusinessID = business.ID

		for _, d := range DemoUsers {
			existing, err := users.GetByEmail(ctx, d.Email)
			if err != nil {
				return err
			}
			if existing != nil {
				if existing.Role != d.Role {
					existing.Role = d.Role
					existing.UpdatedAt = now
					if err := users.Update(ctx, existing); err != nil {
						return err
					}
				}
				continue
			}
			err = users.Create(ctx, &entity.User{
				ID:           uuid.New().String(),
				BusinessID:   business.ID,
				Email:        d.Email,
				PasswordHash: hash,
				FirstName:    d.FirstName,
				LastName:     d.LastName,
				Role:         d.Role,
				Status:       entity.UserStatusActive,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}
			res.CreatedUsers++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("business_id", res.BusinessID).Int("created_users", res.CreatedUsers).Msg("seed demo aplicado")
	return res, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mutesi02/product-marketplace/internal/application/auth"
	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// UserUseCase gestión de usuarios de la empresa por parte de un admin.
// Un usuario de otra empresa se trata como inexistente.
type UserUseCase struct {
	repo     repository.UserRepository
	products repository.ProductRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso. products se usa para no borrar a un dueño de productos.
func NewUserUseCase(repo repository.UserRepository, products repository.ProductRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, products: products, log: log.Component("users"), now: time.Now}
}

// List lista los usuarios de la empresa del admin.
func (uc *UserUseCase) List(ctx context.Context, admin entity.Identity, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	users, err := uc.repo.ListByBusiness(ctx, admin.BusinessID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByBusiness(ctx, admin.BusinessID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Create da de alta un usuario en la empresa del admin.
func (uc *UserUseCase) Create(ctx context.Context, admin entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if !entity.IsValidRole(in.Role) {
		return nil, domain.NewValidationError("role", "debe ser admin, editor, approver o viewer")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   admin.BusinessID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Str("by", admin.ID).Msg("usuario creado")
	res := dto.ToUserResponse(user)
	return &res, nil
}

// Update modifica datos, rol o estado de un usuario de la empresa.
func (uc *UserUseCase) Update(ctx context.Context, admin entity.Identity, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, admin, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := auth.ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.Password != nil {
		if err := auth.ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, domain.NewValidationError("role", "debe ser admin, editor, approver o viewer")
		}
		if user.ID == admin.ID && *in.Role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: un admin no puede quitarse el rol", domain.ErrForbidden)
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
			return nil, domain.NewValidationError("status", "debe ser active o inactive")
		}
		if user.ID == admin.ID && *in.Status != entity.UserStatusActive {
			return nil, fmt.Errorf("%w: un admin no puede desactivarse", domain.ErrForbidden)
		}
		user.Status = *in.Status
	}
	user.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Str("by", admin.ID).Msg("usuario actualizado")
	res := dto.ToUserResponse(user)
	return &res, nil
}

// Delete elimina un usuario de la empresa. Los admin no se eliminan.
func (uc *UserUseCase) Delete(ctx context.Context, admin entity.Identity, userID string) error {
	user, err := uc.load(ctx, admin, userID)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleAdmin {
		return fmt.Errorf("%w: no se puede eliminar un admin", domain.ErrForbidden)
	}
	// Sus productos no se borran en cascada; hay que eliminarlos o desactivar al usuario.
	owned, err := uc.products.Count(ctx, repository.ProductFilter{BusinessID: user.BusinessID, OwnerID: user.ID})
	if err != nil {
		return err
	}
	if owned > 0 {
		return fmt.Errorf("%w: el usuario es dueño de %d productos; desactívelo en su lugar", domain.ErrConflict, owned)
	}
	if err := uc.repo.Delete(ctx, user.ID); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Str("by", admin.ID).Msg("usuario eliminado")
	return nil
}

func (uc *UserUseCase) load(ctx context.Context, admin entity.Identity, userID string) (*entity.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if !validID(userID) {
		return nil, domain.ErrUserNotFound
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.BusinessID != admin.BusinessID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func requireAdmin(id entity.Identity) error {
	if id.IsZero() {
		return domain.ErrUnauthorized
	}
	if id.Role != entity.RoleAdmin {
		return fmt.Errorf("%w: requiere rol admin", domain.ErrForbidden)
	}
	return nil
}

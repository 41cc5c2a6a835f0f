package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/application/dto"
	"github.com/Mutesi02/product-marketplace/internal/application/usecase"
	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/memory"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

func newUsers(t *testing.T) (*usecase.UserUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: admin.ID, BusinessID: admin.BusinessID, Email: admin.Email, Role: entity.RoleAdmin, Status: entity.UserStatusActive,
	}))
	return usecase.NewUserUseCase(store.Users(), store.Products(), logger.Nop()), store
}

func TestUserUseCase_CRUD(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, admin, dto.CreateUserRequest{
		Email: "Nuevo@Test.com", Password: "password123", FirstName: "nuevo", LastName: "editor", Role: entity.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@test.com", created.Email)
	assert.Equal(t, "Nuevo Editor", created.DisplayName)
	assert.Equal(t, admin.BusinessID, created.BusinessID)

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Email: "nuevo@test.com", Password: "password123", Role: entity.RoleViewer})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Email: "x@test.com", Password: "password123", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	role := entity.RoleApprover
	updated, err := uc.Update(ctx, admin, created.ID, dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleApprover, updated.Role)

	list, err := uc.List(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)

	require.NoError(t, uc.Delete(ctx, admin, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, admin, created.ID), domain.ErrUserNotFound)
}

func TestUserUseCase_Restricciones(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()
	const ajenoID = "0b9f6c3e-2a41-4c1d-9a57-5f0e7d1a00b2"

	assert.ErrorIs(t, uc.Delete(ctx, admin, admin.ID), domain.ErrForbidden)

	viewerRole := entity.RoleViewer
	_, err := uc.Update(ctx, admin, admin.ID, dto.UpdateUserRequest{Role: &viewerRole})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.List(ctx, editor, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: ajenoID, BusinessID: "b2", Email: "ajeno@other.com", Role: entity.RoleViewer, Status: entity.UserStatusActive,
	}))
	_, err = uc.Update(ctx, admin, ajenoID, dto.UpdateUserRequest{Role: &viewerRole})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, admin, ajenoID), domain.ErrUserNotFound)
}

func TestBusinessUseCase_Current(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Businesses().Create(ctx, &entity.Business{ID: "b1", Name: "Test Company"}))
	uc := usecase.NewBusinessUseCase(store.Businesses())

	b, err := uc.Current(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "Test Company", b.Name)

	_, err = uc.Current(ctx, outsider)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Current(ctx, entity.Identity{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserUseCase_IDMalFormado(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	role := entity.RoleViewer
	_, err := uc.Update(ctx, admin, "no-es-uuid", dto.UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, admin, "1"), domain.ErrUserNotFound)
}

func TestUserUseCase_NoBorraDuenoDeProductos(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()
	products := usecase.NewProductUseCase(store.Products(), store.Events(), store, logger.Nop())

	created, err := uc.Create(ctx, admin, dto.CreateUserRequest{
		Email: "autor@test.com", Password: "password123", Role: entity.RoleEditor,
	})
	require.NoError(t, err)
	author := entity.Identity{ID: created.ID, Email: created.Email, Role: created.Role, BusinessID: created.BusinessID}
	p, err := products.Create(ctx, author, createReq("Obra"))
	require.NoError(t, err)

	err = uc.Delete(ctx, admin, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	got, err := products.GetByID(ctx, admin, p.ID)
	require.NoError(t, err, "el producto sigue existiendo")
	assert.Equal(t, created.ID, got.OwnerID)

	// El repositorio mantiene la restricción aunque se salte el caso de uso.
	assert.ErrorIs(t, store.Users().Delete(ctx, created.ID), domain.ErrConflict)

	require.NoError(t, products.Delete(ctx, author, p.ID))
	require.NoError(t, uc.Delete(ctx, admin, created.ID))
}

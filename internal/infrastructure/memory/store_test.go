package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/memory"
)

func product(id, owner, status string, created time.Time) *entity.Product {
	return &entity.Product{
		ID: id, BusinessID: "b1", OwnerID: owner, Name: id, Description: "d",
		Price: decimal.RequireFromString("1.00"), Status: status, Version: 1, CreatedAt: created, UpdatedAt: created,
	}
}

func TestProductRepo_UpdateIfVersion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repo := s.Products()
	p := product("p1", "u1", entity.StatusDraft, time.Now())
	require.NoError(t, repo.Create(ctx, p))

	next := *p
	next.Status = entity.StatusPendingApproval
	next.Version = 2
	require.NoError(t, repo.UpdateIfVersion(ctx, &next, 1))

	stale := *p
	stale.Version = 2
	assert.ErrorIs(t, repo.UpdateIfVersion(ctx, &stale, 1), domain.ErrConflict)
	assert.ErrorIs(t, repo.DeleteIfVersion(ctx, "p1", 1), domain.ErrConflict)
	assert.ErrorIs(t, repo.DeleteIfVersion(ctx, "missing", 1), domain.ErrNotFound)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, got.Status)

	require.NoError(t, repo.DeleteIfVersion(ctx, "p1", 2))
	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepo_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repo := s.Products()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, product("a", "u1", entity.StatusDraft, base)))
	require.NoError(t, repo.Create(ctx, product("b", "u2", entity.StatusApproved, base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, product("c", "u2", entity.StatusDraft, base.Add(2*time.Hour))))

	list, err := repo.List(ctx, repository.ProductFilter{BusinessID: "b1", OwnerID: "u1", OrApproved: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)

	n, err := repo.Count(ctx, repository.ProductFilter{Status: entity.StatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := repo.List(ctx, repository.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	empty, err := repo.List(ctx, repository.ProductFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	cat := product("d", "u1", entity.StatusDraft, base.Add(3*time.Hour))
	cat.Category = "muebles"
	require.NoError(t, repo.Create(ctx, cat))
	list, err = repo.List(ctx, repository.ProductFilter{BusinessID: "b1", Category: "muebles"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "d", list[0].ID)
}

func TestUserRepo_DeleteRestringidoPorProductos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", BusinessID: "b1", Email: "u1@test.com", Role: entity.RoleEditor}))
	require.NoError(t, s.Products().Create(ctx, product("p1", "u1", entity.StatusDraft, time.Now())))

	assert.ErrorIs(t, s.Users().Delete(ctx, "u1"), domain.ErrConflict)
	require.NoError(t, s.Products().DeleteIfVersion(ctx, "p1", 1))
	assert.NoError(t, s.Users().Delete(ctx, "u1"))
}

func TestEventRepo_ListByBusiness(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for _, e := range []entity.ProductEvent{
		{ID: "e1", ProductID: "p1", BusinessID: "b1"},
		{ID: "e2", ProductID: "p2", BusinessID: "b2"},
		{ID: "e3", ProductID: "p1", BusinessID: "b1"},
		{ID: "e4", ProductID: "p3", BusinessID: "b1"},
	} {
		require.NoError(t, s.Events().Append(ctx, &e))
	}
	list, err := s.Events().ListByBusiness(ctx, "b1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e4", list[0].ID)
	assert.Equal(t, "e3", list[1].ID)

	all, err := s.Events().ListByBusiness(ctx, "b1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_RunProductRollback(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(ctx, product("p1", "u1", entity.StatusDraft, time.Now())))

	boom := errors.New("boom")
	err := s.RunProduct(ctx, func(products repository.ProductRepository, events repository.ProductEventRepository) error {
		require.NoError(t, products.Create(ctx, product("p2", "u1", entity.StatusDraft, time.Now())))
		require.NoError(t, products.DeleteIfVersion(ctx, "p1", 1))
		require.NoError(t, events.Append(ctx, &entity.ProductEvent{ID: "e1", ProductID: "p1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p1, _ := s.Products().GetByID(ctx, "p1")
	p2, _ := s.Products().GetByID(ctx, "p2")
	assert.NotNil(t, p1)
	assert.Nil(t, p2)
	evs, _ := s.Events().ListByProduct(ctx, "p1")
	assert.Empty(t, evs)
}

func TestStore_RunAccountCommit(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	err := s.RunAccount(ctx, func(businesses repository.BusinessRepository, users repository.UserRepository) error {
		if err := businesses.Create(ctx, &entity.Business{ID: "b1", Name: "Acme"}); err != nil {
			return err
		}
		return users.Create(ctx, &entity.User{ID: "u1", BusinessID: "b1", Email: "a@acme.com", Role: entity.RoleAdmin})
	})
	require.NoError(t, err)

	b, _ := s.Businesses().GetByName(ctx, "Acme")
	require.NotNil(t, b)
	u, _ := s.Users().GetByEmail(ctx, "A@ACME.com")
	require.NotNil(t, u)

	err = s.Users().Create(ctx, &entity.User{ID: "u2", BusinessID: "b1", Email: "a@acme.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/postgres"
	"github.com/Mutesi02/product-marketplace/pkg/config"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// Requiere una base desechable: DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func TestPostgres_EscriturasCondicionadasPorVersion(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	_, err := postgres.MigrateUp(ctx, url, logger.Nop())
	require.NoError(t, err)
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	defer pool.Close()

	businesses := postgres.NewBusinessRepository(pool)
	users := postgres.NewUserRepository(pool)
	products := postgres.NewProductRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	business := &entity.Business{ID: uuid.NewString(), Name: "CAS " + uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, businesses.Create(ctx, business))
	owner := &entity.User{
		ID: uuid.NewString(), BusinessID: business.ID, Email: uuid.NewString() + "@cas.test", PasswordHash: "x",
		Role: entity.RoleEditor, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, users.Create(ctx, owner))
	p := &entity.Product{
		ID: uuid.NewString(), BusinessID: business.ID, OwnerID: owner.ID, Name: "Silla", Description: "Roble",
		Category: "muebles", Price: decimal.RequireFromString("25.50"), Status: entity.StatusDraft, Version: 1,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, products.Create(ctx, p))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM product_events WHERE business_id = $1`, business.ID)
		_, _ = pool.Exec(context.Background(), `DELETE FROM products WHERE business_id = $1`, business.ID)
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE business_id = $1`, business.ID)
		_, _ = pool.Exec(context.Background(), `DELETE FROM businesses WHERE id = $1`, business.ID)
	})

	next := p.Clone()
	next.Status = entity.StatusPendingApproval
	next.Version = 2
	next.UpdatedAt = now.Add(time.Second)
	require.NoError(t, products.UpdateIfVersion(ctx, next, 1))

	stale := next.Clone()
	stale.Status = entity.StatusApproved
	stale.Version = 2
	assert.ErrorIs(t, products.UpdateIfVersion(ctx, stale, 1), domain.ErrConflict)

	ghost := next.Clone()
	ghost.ID = uuid.NewString()
	assert.ErrorIs(t, products.UpdateIfVersion(ctx, ghost, 2), domain.ErrNotFound)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusPendingApproval, got.Status)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.Price.Equal(p.Price))

	missing, err := products.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.ErrorIs(t, users.Delete(ctx, owner.ID), domain.ErrConflict)

	assert.ErrorIs(t, products.DeleteIfVersion(ctx, p.ID, 1), domain.ErrConflict)
	assert.ErrorIs(t, products.DeleteIfVersion(ctx, uuid.NewString(), 1), domain.ErrNotFound)
	require.NoError(t, products.DeleteIfVersion(ctx, p.ID, 2))

	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, users.Delete(ctx, owner.ID))
}

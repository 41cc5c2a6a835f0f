package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/application/seed"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/memory"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

func TestRun_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first, err := seed.Run(ctx, store, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(seed.DemoUsers), first.CreatedUsers)

	second, err := seed.Run(ctx, store, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedUsers)
	assert.Equal(t, first.BusinessID, second.BusinessID)

	n, err := store.Users().CountByBusiness(ctx, first.BusinessID)
	require.NoError(t, err)
	assert.Equal(t, len(seed.DemoUsers), n)

	for _, d := range seed.DemoUsers {
		u, err := store.Users().GetByEmail(ctx, d.Email)
		require.NoError(t, err)
		require.NotNil(t, u, d.Email)
		assert.Equal(t, d.Role, u.Role)
	}
}

package postgres

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stokaro/ptah/migration/migrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/domain/entity"
	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
)

func TestMigrations_Embebidas(t *testing.T) {
	list, err := Migrations()
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, m := range list {
		assert.Equal(t, i+1, m.Version)
		assert.NotNil(t, m.Up)
		assert.NotNil(t, m.Down)
	}
	assert.Equal(t, "Init", list[0].Description)
	assert.Equal(t, "Product Category", list[2].Description)
}

func TestMigrations_CadaVersionTieneReversa(t *testing.T) {
	ups, err := fs.Glob(MigrationsFS(), "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(MigrationsFS(), "*.down.sql")
	require.NoError(t, err)
	require.Len(t, downs, len(ups))

	body, err := fs.ReadFile(MigrationsFS(), "0000000003_product_category.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ON DELETE RESTRICT")
}

func TestMigrations_ProveedorRechazaIncompletas(t *testing.T) {
	_, err := migrator.NewFSMigrationProvider(fstest.MapFS{
		"0000000001_a.up.sql":   {Data: []byte("SELECT 1")},
		"0000000001_a.down.sql": {Data: []byte("SELECT 0")},
		"0000000002_b.up.sql":   {Data: []byte("SELECT 2")},
	})
	assert.ErrorContains(t, err, "incomplete migrations")
}

func TestProductWhere(t *testing.T) {
	where, args := productWhere(repository.ProductFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = productWhere(repository.ProductFilter{BusinessID: "b", OwnerID: "u", OrApproved: true})
	assert.Equal(t, " WHERE business_id = $1 AND (owner_id = $2 OR status = $3)", where)
	assert.Equal(t, []any{"b", "u", entity.StatusApproved}, args)

	where, args = productWhere(repository.ProductFilter{Status: entity.StatusDraft, OwnerID: "u"})
	assert.Equal(t, " WHERE status = $1 AND owner_id = $2", where)
	assert.Equal(t, []any{entity.StatusDraft, "u"}, args)
}

package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutesi02/product-marketplace/internal/domain"
	"github.com/Mutesi02/product-marketplace/pkg/config"
)

func TestCheckViolation(t *testing.T) {
	err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23514", ConstraintName: "products_price_check"})

	verr := checkViolation(err, "products")
	require.Error(t, verr)
	assert.ErrorIs(t, verr, domain.ErrValidation)

	var ve *domain.ValidationError
	require.True(t, errors.As(verr, &ve))
	assert.Equal(t, "price", ve.Field)

	assert.NoError(t, checkViolation(&pgconn.PgError{Code: "23505"}, "products"))
	assert.NoError(t, checkViolation(errors.New("otro"), "products"))
}

func TestClasificacionErrores(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("x")))
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))

	// invalid input syntax for type uuid: "no-existe"
	badID := fmt.Errorf("get product: %w", &pgconn.PgError{Code: "22P02"})
	assert.True(t, isMissing(badID))
	assert.False(t, isNoRows(badID))
	assert.True(t, isMissing(pgx.ErrNoRows))
	assert.False(t, isMissing(&pgconn.PgError{Code: "23505"}))

	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503", ConstraintName: "products_owner_id_fkey"}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

func TestPoolConfigFor(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		DatabaseURL: "postgres://app:pw@db:5432/mk?sslmode=disable",
		MaxConns:    6,
		MinConns:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(6), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)

	pc, err = poolConfigFor(config.DBConfig{
		DatabaseURL: "postgres://app:pw@db:5432/mk?application_name=otro",
		MinConns:    50,
	})
	require.NoError(t, err)
	assert.Equal(t, "otro", pc.ConnConfig.RuntimeParams["application_name"])
	assert.LessOrEqual(t, pc.MinConns, pc.MaxConns)

	_, err = poolConfigFor(config.DBConfig{DatabaseURL: "postgres://app:pw@db:%zz/mk"})
	assert.Error(t, err)
}

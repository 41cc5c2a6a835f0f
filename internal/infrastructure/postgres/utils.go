package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mutesi02/product-marketplace/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

func isForeignKeyViolation(err error) bool { return pgCode(err) == pgForeignKeyViolation }

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isMissing: sin filas, o una clave que ni siquiera es un UUID válido (22P02).
func isMissing(err error) bool {
	return isNoRows(err) || pgCode(err) == pgInvalidText
}

// checkViolation traduce un CHECK violado (p.ej. products_price_check) a error de
// validación sobre la columna. Devuelve nil si err no es un CHECK.
func checkViolation(err error, table string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgCheckViolation {
		return nil
	}
	field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, table+"_"), "_check")
	return domain.NewValidationError(field, "fuera de rango")
}

package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/stokaro/ptah/dbschema"
	"github.com/stokaro/ptah/migration/migrator"

	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// Archivos NNNNNNNNNN_descripcion.{up,down}.sql; cada versión necesita ambos.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationsFS devuelve el directorio de migraciones embebido como raíz.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrations carga y valida las migraciones embebidas, ordenadas por versión.
func Migrations() ([]*migrator.Migration, error) {
	p, err := migrator.NewFSMigrationProvider(MigrationsFS())
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}
	return p.Migrations(), nil
}

// MigrationStatus estado de schema_migrations frente a las migraciones embebidas.
type MigrationStatus = migrator.MigrationStatus

// withMigrator abre una conexión propia (database/sql vía ptah) y la cierra al terminar.
func withMigrator(ctx context.Context, dbURL string, log *logger.Logger, fn func(*migrator.Migrator) error) error {
	conn, err := dbschema.ConnectToDatabase(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("conexión del migrador: %w", err)
	}
	defer dbschema.CloseAndWarn(conn)

	m, err := migrator.NewFSMigrator(conn, MigrationsFS())
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	return fn(m.WithLogger(log.Component("migrator").Slog()))
}

// MigrateUp aplica las migraciones pendientes, cada una en su transacción.
// Devuelve cuántas se aplicaron.
func MigrateUp(ctx context.Context, dbURL string, log *logger.Logger) (int, error) {
	applied := 0
	err := withMigrator(ctx, dbURL, log, func(m *migrator.Migrator) error {
		if err := m.Initialize(ctx); err != nil {
			return fmt.Errorf("crear schema_migrations: %w", err)
		}
		pending, err := m.GetPendingMigrations(ctx)
		if err != nil {
			return fmt.Errorf("migraciones pendientes: %w", err)
		}
		if err := m.MigrateUp(ctx); err != nil {
			return err
		}
		applied = len(pending)
		return nil
	})
	return applied, err
}

// MigrateDown revierte la última migración aplicada. Devuelve la versión resultante.
func MigrateDown(ctx context.Context, dbURL string, log *logger.Logger) (int, error) {
	version := 0
	err := withMigrator(ctx, dbURL, log, func(m *migrator.Migrator) error {
		if err := m.MigrateDown(ctx); err != nil {
			return err
		}
		v, err := m.GetCurrentVersion(ctx)
		version = v
		return err
	})
	return version, err
}

// Status informa versión actual y pendientes sin tocar el esquema de la aplicación.
func Status(ctx context.Context, dbURL string, log *logger.Logger) (*MigrationStatus, error) {
	var st *MigrationStatus
	err := withMigrator(ctx, dbURL, log, func(m *migrator.Migrator) error {
		if err := m.Initialize(ctx); err != nil {
			return fmt.Errorf("crear schema_migrations: %w", err)
		}
		s, err := m.GetMigrationStatus(ctx)
		st = s
		return err
	})
	return st, err
}

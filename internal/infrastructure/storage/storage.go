// Package storage selecciona el backend de persistencia según STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/Mutesi02/product-marketplace/internal/domain/repository"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/memory"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/postgres"
	"github.com/Mutesi02/product-marketplace/pkg/config"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// Backend repositorios listos para inyectar en los casos de uso.
type Backend struct {
	Driver     string
	Users      repository.UserRepository
	Businesses repository.BusinessRepository
	Products   repository.ProductRepository
	Events     repository.ProductEventRepository
	Tx         repository.TxRunner

	close func()
}

// Close libera las conexiones (no-op en memoria).
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open abre el backend configurado. Con PostgreSQL aplica las migraciones si DB_AUTO_MIGRATE.
func Open(ctx context.Context, cfg config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return Memory(), nil
	case config.StoragePostgres:
		if cfg.DB.AutoMigrate {
			if _, err := postgres.MigrateUp(ctx, cfg.DB.ConnectionString(), log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Backend{
			Driver:     config.StoragePostgres,
			Users:      postgres.NewUserRepository(pool),
			Businesses: postgres.NewBusinessRepository(pool),
			Products:   postgres.NewProductRepository(pool),
			Events:     postgres.NewProductEventRepository(pool),
			Tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
	}
}

// Memory backend en memoria, vacío.
func Memory() *Backend {
	s := memory.NewStore()
	return &Backend{
		Driver:     config.StorageMemory,
		Users:      s.Users(),
		Businesses: s.Businesses(),
		Products:   s.Products(),
		Events:     s.Events(),
		Tx:         s,
	}
}

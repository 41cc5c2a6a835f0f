package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mutesi02/product-marketplace/internal/application/seed"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/postgres"
	"github.com/Mutesi02/product-marketplace/internal/infrastructure/storage"
	"github.com/Mutesi02/product-marketplace/pkg/config"
	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// Los comandos de administración hablan directo con la base configurada (DATABASE_URL, DB_*).

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Gestiona el esquema de PostgreSQL (up, down, status)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				dbURL, log, err := migrateEnv(cmd)
				if err != nil {
					return err
				}
				n, err := postgres.MigrateUp(cmd.Context(), dbURL, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte la última migración aplicada",
			RunE: func(cmd *cobra.Command, _ []string) error {
				dbURL, log, err := migrateEnv(cmd)
				if err != nil {
					return err
				}
				v, err := postgres.MigrateDown(cmd.Context(), dbURL, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "esquema en la versión %d\n", v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Muestra la versión actual y las migraciones pendientes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				dbURL, log, err := migrateEnv(cmd)
				if err != nil {
					return err
				}
				st, err := postgres.Status(cmd.Context(), dbURL, log)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "versión actual: %d de %d\n", st.CurrentVersion, st.TotalMigrations)
				if st.HasPendingChanges {
					fmt.Fprintf(out, "pendientes: %v\n", st.PendingMigrations)
				}
				return nil
			},
		},
	)
	return cmd
}

func migrateEnv(cmd *cobra.Command) (string, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
	return cfg.DB.ConnectionString(), log, nil
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Crea la empresa y los usuarios demo (idempotente)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
			if cfg.Storage.Driver == config.StorageMemory {
				return fmt.Errorf("seed requiere STORAGE_DRIVER=%s", config.StoragePostgres)
			}
			backend, err := storage.Open(cmd.Context(), *cfg, log)
			if err != nil {
				return err
			}
			defer backend.Close()
			res, err := seed.Run(cmd.Context(), backend.Tx, log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Empresa %q (%s): %d usuarios creados\n", seed.DemoBusinessName, res.BusinessID, res.CreatedUsers)
			for _, u := range seed.DemoUsers {
				fmt.Fprintf(out, "  %-20s %s\n", u.Email, u.Role)
			}
			return nil
		},
	}
}

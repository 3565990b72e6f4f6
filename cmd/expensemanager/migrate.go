package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bher20/expensemanager/internal/config"
	"github.com/bher20/expensemanager/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema for the sqlite and postgres drivers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if driver == "" {
				driver = cfg.StorageDriver
			}
			if dsn == "" {
				dsn = cfg.StorageDSN
			}
			if driver == "memory" || driver == "file" {
				return fmt.Errorf("driver %q has no schema to migrate", driver)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&driver, "driver", "", "storage driver (defaults to EXPENSES_STORAGE_DRIVER)")
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "connection string (defaults to EXPENSES_STORAGE_DSN)")

	step := func(use, short string, fn func(ctx context.Context, driver, dsn string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return fn(cmd.Context(), driver, dsn)
			},
		}
	}

	cmd.AddCommand(
		step("up", "Apply all pending migrations", migrate.Up),
		step("down", "Roll back the most recent migration", migrate.Down),
		step("status", "Print the applied state of every migration", migrate.Status),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := migrate.Version(cmd.Context(), driver, dsn)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
	)
	return cmd
}

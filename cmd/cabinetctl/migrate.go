package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagResetYes bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema (idempotent)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema ready (driver: %s, prefix: %s)\n", cfg.DatabaseDriver, cfg.TablePrefix)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every table and recreate the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Environment == "prod" {
			return fmt.Errorf("refusing to reset the %s environment", cfg.Environment)
		}
		if !flagResetYes {
			return fmt.Errorf("reset drops all data with prefix %q; pass --yes to confirm", cfg.TablePrefix)
		}

		ctx := cmd.Context()
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tables dropped and recreated (prefix: %s)\n", cfg.TablePrefix)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "confirm dropping all tables")
}

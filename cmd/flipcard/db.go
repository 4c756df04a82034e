package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snakada/flipcard/internal/database"
)

func newDBCommand() *cobra.Command {
	dbCommand := &cobra.Command{
		Use:   "db",
		Short: "Database administration",
	}

	dbCommand.AddCommand(newDBMigrateCommand())

	return dbCommand
}

func newDBMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			if err := database.Probe(cmd.Context(), db); err != nil {
				return fmt.Errorf("database.Probe > %w", err)
			}
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("database.Migrate > %w", err)
			}
			fmt.Println("Database is up to date.")
			return nil
		},
	}
}

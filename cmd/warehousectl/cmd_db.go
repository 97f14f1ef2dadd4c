package main

import (
	"fmt"

	"go-warehouse-inventory/config"
	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, *config.Config, error) {
	cfg, _ := config.Load()
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

// warehousectl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on %s…\n", cfg.Database.Driver)
		if err := model.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Done.")
		return nil
	},
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "warehousectl",
	Short:         "Warehouse inventory operator CLI",
	Long:          "warehousectl migrates the warehouse database and prints inventory and movement reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Database
	rootCmd.AddCommand(migrateCmd)

	// Reports
	reportCmd.AddCommand(reportInventoryCmd)
	reportCmd.AddCommand(reportLowStockCmd)
	reportCmd.AddCommand(reportMovementsCmd)
	rootCmd.AddCommand(reportCmd)
}

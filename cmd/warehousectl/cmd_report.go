package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/service"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print inventory reports",
}

func reportService() (service.ReportService, error) {
	db, _, err := bootDB()
	if err != nil {
		return nil, err
	}
	return service.NewReportService(repository.NewProductRepo(db), repository.NewReportRepo(db), db), nil
}

var (
	inventoryCategory string
	inventoryStatus   string
)

// warehousectl report inventory
var reportInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Current stock, value and status of every active product",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := reportService()
		if err != nil {
			return err
		}
		report, err := reports.CurrentInventory(cmd.Context(), service.InventoryFilter{
			Category:    inventoryCategory,
			StockStatus: inventoryStatus,
		})
		if err != nil {
			return err
		}
		return renderInventory(cmd.OutOrStdout(), report)
	},
}

// warehousectl report low-stock
var reportLowStockCmd = &cobra.Command{
	Use:   "low-stock",
	Short: "Active products below their minimum stock level",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := reportService()
		if err != nil {
			return err
		}
		items, err := reports.LowStock(cmd.Context())
		if err != nil {
			return err
		}
		return renderLowStock(cmd.OutOrStdout(), items)
	},
}

var (
	movementsFrom    string
	movementsTo      string
	movementsProduct string
)

// warehousectl report movements
var reportMovementsCmd = &cobra.Command{
	Use:   "movements",
	Short: "Stock movements in a date range with running balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := time.Parse(dateLayout, movementsFrom)
		if err != nil {
			return fmt.Errorf("--from: use YYYY-MM-DD: %w", err)
		}
		to, err := time.Parse(dateLayout, movementsTo)
		if err != nil {
			return fmt.Errorf("--to: use YYYY-MM-DD: %w", err)
		}

		reports, err := reportService()
		if err != nil {
			return err
		}
		report, err := reports.MovementReport(cmd.Context(), from, to, movementsProduct)
		if err != nil {
			return err
		}
		return renderMovements(cmd.OutOrStdout(), report)
	},
}

func init() {
	reportInventoryCmd.Flags().StringVar(&inventoryCategory, "category", "", "category code (RAW, WIP, FIN, CON)")
	reportInventoryCmd.Flags().StringVar(&inventoryStatus, "status", "", "stock status (LOW, NORMAL, HIGH)")

	reportMovementsCmd.Flags().StringVar(&movementsFrom, "from", "", "first day, YYYY-MM-DD")
	reportMovementsCmd.Flags().StringVar(&movementsTo, "to", "", "last day, YYYY-MM-DD")
	reportMovementsCmd.Flags().StringVar(&movementsProduct, "product", "", "limit to one product code")
	_ = reportMovementsCmd.MarkFlagRequired("from")
	_ = reportMovementsCmd.MarkFlagRequired("to")
}

func renderInventory(w io.Writer, report *service.InventoryReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tCATEGORY\tUNIT\tSTOCK\tMIN\tMAX\tCOST\tVALUE\tSTATUS\tLAST MOVEMENT")
	for _, r := range report.Items {
		last := "-"
		if r.LastTransactionDate != nil {
			last = r.LastTransactionDate.Format(dateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ProductCode, r.ProductName, r.Category, r.Unit,
			r.CurrentStock.String(), r.MinimumStockLevel.String(), r.MaximumStockLevel.String(),
			r.StandardCost.StringFixed(2), r.StockValue.StringFixed(2), r.StockStatus, last)
	}
	fmt.Fprintf(tw, "\nProducts: %d\tTotal value: %s\tLow stock: %d\n",
		report.TotalProducts, report.TotalValue.StringFixed(2), report.LowStockCount)
	return tw.Flush()
}

func renderLowStock(w io.Writer, items []service.LowStockItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tSTOCK\tMIN\tSHORTAGE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			it.ProductCode, it.ProductName,
			it.CurrentStock.String(), it.MinimumStockLevel.String(), it.Shortage.String())
	}
	return tw.Flush()
}

func renderMovements(w io.Writer, report *service.MovementReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Movements %s .. %s\n", report.StartDate, report.EndDate)
	for _, p := range report.Products {
		fmt.Fprintf(tw, "\n%s %s\topening %s\n", p.ProductCode, p.ProductName, p.OpeningBalance.String())
		fmt.Fprintln(tw, "DATE\tTRANSACTION\tTYPE\tQTY\tDELTA\tBALANCE")
		for _, m := range p.Movements {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				m.TransactionDate.Format(dateLayout), m.TransactionID, m.Type,
				m.Quantity.String(), m.Delta.String(), m.RunningBalance.String())
		}
		fmt.Fprintf(tw, "closing\t\t\t\t\t%s\n", p.ClosingBalance.String())
	}
	return tw.Flush()
}

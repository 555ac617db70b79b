package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"restaurant-admin/cmd/restaurantctl/output"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/repository"
	"restaurant-admin/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print sales and stock reports",
	Long: `Print the reports the admin UI shows.

Subcommands:
  sales    - Quantity sold and revenue per product
  revenue  - Total revenue over all sales
  stock    - Stock level and status of every product`,
}

var reportSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Quantity sold and revenue per product",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReports(cmd.Context(), func(ctx context.Context, reports service.ReportService) error {
			rows, err := reports.SalesByProduct(ctx)
			if err != nil {
				return err
			}
			return renderSales(os.Stdout, rows, jsonOutput)
		})
	},
}

var reportRevenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Total revenue over all sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReports(cmd.Context(), func(ctx context.Context, reports service.ReportService) error {
			total, err := reports.TotalRevenue(ctx)
			if err != nil {
				return err
			}
			return renderRevenue(os.Stdout, total, jsonOutput)
		})
	},
}

var reportStockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Stock level and status of every product",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReports(cmd.Context(), func(ctx context.Context, reports service.ReportService) error {
			rows, err := reports.StockStatus(ctx)
			if err != nil {
				return err
			}
			return renderStock(os.Stdout, rows, jsonOutput)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportSalesCmd, reportRevenueCmd, reportStockCmd)
}

func withReports(ctx context.Context, fn func(context.Context, service.ReportService) error) error {
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, service.NewReportService(repository.NewReportRepository(db.DB())))
}

type salesRow struct {
	ProductName  string `json:"product_name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

func renderSales(w io.Writer, rows []*domain.ProductSales, asJSON bool) error {
	out := make([]salesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, salesRow{ProductName: r.ProductName, QuantitySold: r.QuantitySold, Revenue: r.Revenue.StringFixed(2)})
	}

	if asJSON {
		return encodeJSON(w, out)
	}

	if len(out) == 0 {
		output.Note(w, "No sales recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PRODUCT\tQUANTITY\tREVENUE")
	_, _ = fmt.Fprintln(tw, "-------\t--------\t-------")
	for _, r := range out {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", r.ProductName, r.QuantitySold, r.Revenue)
	}
	return tw.Flush()
}

func renderRevenue(w io.Writer, total decimal.Decimal, asJSON bool) error {
	if asJSON {
		return encodeJSON(w, map[string]string{"total_revenue": total.StringFixed(2)})
	}
	_, err := fmt.Fprintf(w, "Total revenue: %s\n", total.StringFixed(2))
	return err
}

func renderStock(w io.Writer, rows []*domain.StockStatus, asJSON bool) error {
	if asJSON {
		if rows == nil {
			rows = []*domain.StockStatus{}
		}
		return encodeJSON(w, rows)
	}

	if len(rows) == 0 {
		output.Note(w, "No products")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "\tPRODUCT\tSTOCK\tSTATUS")
	_, _ = fmt.Fprintln(tw, "\t-------\t-----\t------")
	for _, r := range rows {
		icon := output.StockIcon(r.Status == domain.StockStatusInStock)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", icon, r.ProductName, r.Stock, r.Status)
	}
	return tw.Flush()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

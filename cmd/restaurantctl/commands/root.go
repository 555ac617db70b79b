package commands

import (
	"context"
	"fmt"
	"os"

	"restaurant-admin/internal/config"
	"restaurant-admin/internal/database"
	"restaurant-admin/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restaurantctl",
	Short: "Operator tool for the restaurant admin database",
	Long: `restaurantctl applies schema migrations and prints the sales and stock
reports straight from the database, using the same configuration as the API
(environment variables or a .env file).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func newLogger() *zap.Logger {
	if verbose {
		log, err := logger.New("development", "debug")
		if err == nil {
			return log
		}
	}
	return logger.NewWithDefaults()
}

// openDatabase connects with the configured credentials. The caller closes it.
func openDatabase(ctx context.Context) (database.Service, error) {
	cfg := config.Load()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

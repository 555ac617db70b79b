package commands

import (
	"context"
	"os"

	"restaurant-admin/cmd/restaurantctl/output"
	"restaurant-admin/internal/database"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run the embedded database migrations.

Subcommands:
  up      - Apply pending migrations
  status  - Show migration status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateUp(cmd.Context())
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}

func runMigrateUp(ctx context.Context) error {
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	log := newLogger()
	defer log.Sync()

	output.Heading(os.Stdout, "Applying Migrations")
	if err := database.RunMigrations(db.DB(), log); err != nil {
		output.Failure(os.Stdout, "Migration failed")
		return err
	}

	version, err := database.CurrentVersion(db.DB())
	if err != nil {
		return err
	}
	output.Success(os.Stdout, "Schema is at version %d", version)
	return nil
}

func runMigrateStatus(ctx context.Context) error {
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	output.Heading(os.Stdout, "Migration Status")
	return database.GetMigrationStatus(db.DB())
}

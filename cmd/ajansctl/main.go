package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/app"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/config"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/database"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ajansctl",
	Short: "Operator tooling for the agency management API",
	Long:  `ajansctl runs schema migrations, spreadsheet imports and exports against the configured database.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			fail("Error opening database", err)
		}
		defer db.Close()

		if err := database.MigrateUp(db); err != nil {
			fail("Error running migrations", err)
		}
		fmt.Println("Migrations applied.")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Run: func(cmd *cobra.Command, args []string) {
		steps, _ := cmd.Flags().GetInt("steps")

		cfg := mustLoadConfig()
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			fail("Error opening database", err)
		}
		defer db.Close()

		if err := database.MigrateDown(db, steps); err != nil {
			fail("Error rolling back", err)
		}
		fmt.Printf("Rolled back %d migration(s).\n", steps)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			fail("Error opening database", err)
		}
		defer db.Close()

		status, err := database.Status(db)
		if err != nil {
			fail("Error reading migration status", err)
		}
		fmt.Printf("Current version: %d\n", status.CurrentVersion)
		fmt.Printf("Latest version:  %d\n", status.LatestVersion)
		if status.Dirty {
			fmt.Println("Schema is dirty: the last migration failed part-way.")
		}
		if status.Pending {
			fmt.Println("Pending migrations exist. Run 'ajansctl migrate up'.")
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records from spreadsheets",
}

var importClientsCmd = &cobra.Command{
	Use:   "clients <file.xlsx>",
	Short: "Import clients from an xlsx sheet",
	Long: `Import clients from the first sheet of an xlsx file.

The header row must contain "Client Name". Sector, Monthly Fee, Contact, Phone, Email
and Notes are optional. Rows without a name are skipped and every client gets a generated code.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fail("Error opening file", err)
		}
		defer f.Close()

		withApp(func(ctx context.Context, a *app.App) {
			result, err := a.Services.Imports.ImportClients(ctx, f)
			if err != nil {
				fail("Error importing clients", err)
			}
			fmt.Printf("Imported: %d\n", result.Imported)
			fmt.Printf("Skipped: %d\n", result.Skipped)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to files",
}

var exportWorkbookCmd = &cobra.Command{
	Use:   "workbook <out.xlsx>",
	Short: "Write every table to one xlsx workbook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(ctx context.Context, a *app.App) {
			data, err := a.Services.Exports.Workbook(ctx)
			if err != nil {
				fail("Error building workbook", err)
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				fail("Error writing workbook", err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", args[0], len(data))
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics",
}

var statsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the dashboard figures as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(ctx context.Context, a *app.App) {
			metrics, err := a.Services.Statistics.Dashboard(ctx)
			if err != nil {
				fail("Error loading dashboard", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(metrics); err != nil {
				fail("Error encoding dashboard", err)
			}
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntP("steps", "n", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	importCmd.AddCommand(importClientsCmd)
	exportCmd.AddCommand(exportWorkbookCmd)
	statsCmd.AddCommand(statsDashboardCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("Error loading config", err)
	}
	return cfg
}

// withApp wires the full service graph for one command. zap writes to stderr, leaving stdout for output.
func withApp(run func(ctx context.Context, a *app.App)) {
	cfg := mustLoadConfig()

	logr, err := logger.New(cfg)
	if err != nil {
		fail("Error initialising logger", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		fail("Error initialising application", err)
	}
	defer a.Close()

	run(ctx, a)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

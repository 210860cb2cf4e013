package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leettrack/backend/internal/store"
)

var (
	// Global flags
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed and inspect a leettrack database",
	Long: `seed fills a leettrack database with data for manual testing.

Commands:
  questions  Import a YAML question catalogue
  history    Generate synthetic users and solve history
  validate   Check a weight table file and preview its plan`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if it exists
		_ = godotenv.Load()
		if !cmd.Flags().Changed("db") {
			if v := os.Getenv("DATABASE_PATH"); v != "" {
				dbPath = v
			}
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "leettrack.db", "SQLite database path (default from DATABASE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLite(dbPath)
}

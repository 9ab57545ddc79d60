// Command restaurante runs the restaurant management backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/restaurante/backend/internal/config"
	"github.com/restaurante/backend/internal/storage/sqldb"
	"github.com/restaurante/backend/pkg/logging"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restaurante",
	Short: "Restaurant management backend",
	Long: `restaurante serves the REST API of the restaurant: addresses, clients,
ingredients, stock, dishes, orders and payments, stored in SQLite or PostgreSQL.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file (default: restaurante.yaml in . or ./config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(logging.Options{Level: cfg.Log.Level, Format: logging.Format(cfg.Log.Format)})
	return cfg, nil
}

// openStore opens the configured database and applies pending migrations.
func openStore(cfg *config.Config) (*sqldb.Store, error) {
	store, err := sqldb.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

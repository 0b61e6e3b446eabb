package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"amc-backend/internal/config"
	"amc-backend/internal/database"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	driver     string
	timeout    time.Duration
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "amcctl",
	Short: "Administer the AMC service tracker",
	Long: `amcctl manages the AMC service tracker's storage and exports.

Available subcommands:
  migrate       - Apply pending Postgres migrations
  seed          - Load the sample customer portfolio into an empty store
  customers     - Print every customer with branch completion summaries
  report        - Export the quarterly completion report as PDF or XLSX
  hash-password - Print a bcrypt hash for an admin account
  totp-secret   - Generate an authenticator secret for an admin account
  reset         - Delete all AMC data from Postgres`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&driver, "storage", "", "Storage driver: memory or postgres (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(totpSecretCmd)
	rootCmd.AddCommand(resetCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ConfigureLogging()
	if driver != "" {
		cfg.Storage.Driver = driver
	}
	return cfg, nil
}

// openStores loads config and opens storage for one command run.
func openStores(ctx context.Context, migrate bool) (*config.Config, *database.Stores, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	stores, err := database.Open(ctx, cfg, migrate)
	if err != nil {
		return nil, nil, err
	}
	if stores.Driver == database.DriverMemory {
		log.Printf("[amcctl] Memory storage only lives for this command")
	}
	return cfg, stores, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yukikurage/disaster-response-api/internal/config"
	"github.com/yukikurage/disaster-response-api/internal/database"
	"github.com/yukikurage/disaster-response-api/internal/logging"
)

var logger *zap.Logger

// rootCmd is the operator CLI for the disaster response API
var rootCmd = &cobra.Command{
	Use:           "hazardctl",
	Short:         "Operate the disaster response API database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		var err error
		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}

		if err := database.Connect(cfg); err != nil {
			return err
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables, indexes and seed hazard types",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(); err != nil {
			return err
		}
		logger.Info("migrations completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

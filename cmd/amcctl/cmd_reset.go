package main

import (
	"fmt"

	"amc-backend/internal/database"
	"amc-backend/internal/db"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

// resetCmd wipes the AMC tables of the configured Postgres database
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all AMC customers, branches and breakdown records (Postgres)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return fmt.Errorf("reset deletes all AMC data; pass --yes to confirm")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Reset(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "AMC data cleared")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm that all AMC data should be deleted")
}

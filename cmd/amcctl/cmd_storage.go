package main

import (
	"fmt"
	"text/tabwriter"

	"amc-backend/internal/database"
	"amc-backend/internal/seed"

	"github.com/spf13/cobra"
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Storage.Driver = database.DriverPostgres

		stores, err := database.Open(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer stores.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations up to date")
		return nil
	},
}

// seedCmd loads the sample portfolio
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample customer portfolio into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg, stores, err := openStores(ctx, true)
		if err != nil {
			return err
		}
		defer stores.Close()

		n, err := seed.Load(ctx, stores.Customers, stores.Branches, stores.Breakdowns, seed.Options{
			Logo:     cfg.AMC.DefaultLogo,
			Password: cfg.AMC.DefaultPassword,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d customers\n", n)
		return nil
	},
}

// customersCmd prints the customer directory
var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Print every customer with branch completion summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		_, stores, err := openStores(ctx, false)
		if err != nil {
			return err
		}
		defer stores.Close()

		customers, err := stores.Customers.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCUSTOMER\tBRANCH\tQUARTERS")
		for _, c := range customers {
			if len(c.Branches) == 0 {
				fmt.Fprintf(w, "%d\t%s\t-\t-\n", c.ID, c.Name)
				continue
			}
			for _, b := range c.Branches {
				fmt.Fprintf(w, "%d\t%s\t%d %s\t%s\n", c.ID, c.Name, b.ID, b.Name, b.Summary())
			}
		}
		return w.Flush()
	},
}

package main

import (
	"fmt"
	"os"

	"amc-backend/internal/seed"
	"amc-backend/internal/services"

	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportOut    string
	reportSeed   bool
)

// reportCmd exports the completion report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the quarterly completion report as PDF or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportFormat != "pdf" && reportFormat != "xlsx" {
			return fmt.Errorf("unsupported format %q (want pdf or xlsx)", reportFormat)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg, stores, err := openStores(ctx, false)
		if err != nil {
			return err
		}
		defer stores.Close()

		if reportSeed {
			if _, err := seed.Load(ctx, stores.Customers, stores.Branches, stores.Breakdowns, seed.Options{
				Logo:     cfg.AMC.DefaultLogo,
				Password: cfg.AMC.DefaultPassword,
			}); err != nil {
				return err
			}
		}

		svc := services.NewReportService(stores.Customers, stores.Breakdowns, nil)
		report, err := svc.BuildAMCReport(ctx)
		if err != nil {
			return err
		}

		var data []byte
		if reportFormat == "pdf" {
			data, err = svc.GenerateAMCReportPDF(report)
		} else {
			data, err = svc.GenerateAMCReportXLSX(report)
		}
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = "amc_report." + reportFormat
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d branches, %.0f%% of quarters completed)\n",
			out, len(report.Rows), report.CompletionPercent())
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "pdf", "Report format: pdf or xlsx")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output file (default amc_report.<format>)")
	reportCmd.Flags().BoolVar(&reportSeed, "seed", false, "Load the sample portfolio first when the store is empty")
}

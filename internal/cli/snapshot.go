package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-analyst/internal/analytics"
	"trade-analyst/internal/balance"
	"trade-analyst/internal/models"
	"trade-analyst/internal/output"
	"trade-analyst/pkg/utils"
)

func newSnapshotCmd(app *App) *cobra.Command {
	var (
		dryRun   bool
		noMail   bool
		fixedBal float64
		asOf     string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run the daily snapshot",
		Long: `Runs the full daily batch: timestamp backfill, day-window selection,
profit/investment/ROI aggregation, investor apportionment, one CSV row per
investor and optional email delivery.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd)
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}

			now := time.Now()
			if asOf != "" {
				// Useful for re-running against old ledgers.
				day, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("parsing --asof: %w", err)
				}
				now = day
			}

			engine := &analytics.Engine{
				Config: cfg,
				Logger: app.Logger,
			}

			if cmd.Flags().Changed("balance") {
				engine.Balance = balance.Static{Value: fixedBal}
			} else {
				engine.Balance = balance.NewBinance(cfg.Credentials.Binance, cfg.Snapshot.QuoteCurrency)
			}

			if !dryRun {
				engine.Writer = output.NewCSVWriter(cfg.Snapshot.OutputTemplate)
				if !noMail {
					engine.Mailer = output.NewSMTPMailer(cfg.Notifications.Email)
				}
			}

			result, err := engine.Run(cmd.Context(), now)
			if err != nil {
				return err
			}

			if out.IsJSON() {
				return out.JSON(snapshotReport(result))
			}

			printRun(out, cfg.Snapshot.QuoteCurrency, result, dryRun)

			if len(result.OutputErrors) > 0 {
				return fmt.Errorf("%d investor output(s) failed", len(result.OutputErrors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and print without writing logs or mailing")
	cmd.Flags().BoolVar(&noMail, "no-mail", false, "write logs but skip email delivery")
	cmd.Flags().Float64Var(&fixedBal, "balance", 0, "use a fixed account balance instead of the live reading")
	cmd.Flags().StringVar(&asOf, "asof", "", "run as if today were this date (YYYY-MM-DD)")

	return cmd
}

// snapshotJSON is the machine-readable run report.
type snapshotJSON struct {
	RunID        string                 `json:"run_id"`
	Date         string                 `json:"date"`
	Balance      float64                `json:"account_balance"`
	Totals       analytics.Totals       `json:"totals"`
	Snapshots    []models.DailySnapshot `json:"snapshots"`
	OutputErrors []string               `json:"output_errors,omitempty"`
}

func snapshotReport(result *analytics.RunResult) snapshotJSON {
	report := snapshotJSON{
		RunID:     result.RunID,
		Date:      result.Date,
		Balance:   result.Balance,
		Totals:    result.Totals,
		Snapshots: result.Snapshots,
	}
	for _, err := range result.OutputErrors {
		report.OutputErrors = append(report.OutputErrors, err.Error())
	}
	return report
}

func printRun(out *Output, currency string, result *analytics.RunResult, dryRun bool) {
	out.Bold("Daily Snapshot %s", result.Date)
	out.Printf("  Account Balance:  %s\n", utils.FormatAmount(result.Balance, currency))
	out.Printf("  Daily Profit:     %s\n", utils.FormatSigned(result.Totals.DailyProfit, currency))
	out.Printf("  Daily Trades:     %d\n", result.Totals.DailyTradeCount)
	out.Printf("  Daily Investment: %s\n", utils.FormatAmount(result.Totals.DailyInvestment, currency))
	out.Printf("  Daily ROI:        %s\n", utils.FormatPercent(result.Totals.DailyROI))
	out.Printf("  Total Investment: %s\n", utils.FormatAmount(result.Totals.TotalInvestment, currency))
	out.Printf("  Total ROI:        %s\n", utils.FormatPercent(result.Totals.TotalROI))
	out.Println()

	out.Bold("Profit Shares")
	for _, share := range result.Shares {
		out.Printf("  %-12s %s (ratio %.6f)\n",
			share.Investor.ID,
			utils.FormatSigned(share.Profit, currency),
			share.Ratio,
		)
	}

	if dryRun {
		out.Println()
		out.Dim("Dry run: no logs written, no mail sent.")
		return
	}

	out.Println()
	for _, err := range result.OutputErrors {
		out.Error("%v", err)
	}
	if len(result.OutputErrors) == 0 {
		out.Success("Snapshot rows written for %d investor(s).", len(result.Snapshots))
	}
}

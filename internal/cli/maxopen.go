package cli

import (
	"github.com/spf13/cobra"

	"trade-analyst/internal/analytics"
	"trade-analyst/internal/ledger"
)

func newMaxOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "maxopen",
		Short: "Maximum number of simultaneously open trades",
		Long: `Sweeps the full ledger history and reports the highest number of trades
that were ever open at the same instant. Trades are counted over half-open
intervals: a trade closing at the exact second another opens does not
overlap it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd)
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}

			session, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return err
			}
			defer session.Close()

			// Intervals need derived timestamps; fill any gaps first.
			if _, err := analytics.BackfillTimestamps(cmd.Context(), session, cfg.Snapshot.UTCOffsetSeconds, app.Logger); err != nil {
				return err
			}

			trades, err := session.AllTrades(cmd.Context())
			if err != nil {
				return err
			}

			intervals := analytics.Intervals(trades)
			max := analytics.MaxOpenTrades(intervals)

			if out.IsJSON() {
				return out.JSON(map[string]int{
					"max_open_trades": max,
					"trades_counted":  len(intervals),
				})
			}

			out.Printf("Max open trades: %d (over %d completed trade(s))\n", max, len(intervals))
			return nil
		},
	}
}

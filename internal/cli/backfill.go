package cli

import (
	"github.com/spf13/cobra"

	"trade-analyst/internal/analytics"
	"trade-analyst/internal/ledger"
)

func newBackfillCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Backfill derived timestamps in the ledger",
		Long: `Ensures the ledger carries the derived epoch timestamp columns and fills
them for every closed trade that still lacks them. Safe to re-run: already
backfilled rows are never touched again.`,
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

			result, err := analytics.BackfillTimestamps(cmd.Context(), session, cfg.Snapshot.UTCOffsetSeconds, app.Logger)
			if err != nil {
				return err
			}

			if out.IsJSON() {
				return out.JSON(map[string]int{
					"updated": result.Updated,
					"open":    result.Open,
					"failed":  result.Failed,
				})
			}

			out.Success("Backfilled %d row(s); %d still open, %d unparseable.",
				result.Updated, result.Open, result.Failed)
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"trade-analyst/internal/ledger"
	"trade-analyst/pkg/utils"
)

func newPairsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "Missed-profit report over closed trades",
		Long: `Lists every closed trade whose price peaked above its close rate, with
the profit that would have been realized at the peak.`,
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

			reports, err := session.PairReports(cmd.Context())
			if err != nil {
				return err
			}

			type pairJSON struct {
				Pair            string  `json:"pair"`
				OpenRate        float64 `json:"open_rate"`
				MaxRate         float64 `json:"max_rate"`
				CloseRate       float64 `json:"close_rate"`
				CloseProfit     float64 `json:"close_profit_pct"`
				PotentialProfit float64 `json:"potential_profit_pct"`
			}

			var missed []pairJSON
			for _, r := range reports {
				if !r.MaxRate.Valid || !r.CloseRate.Valid || r.OpenRate == 0 {
					continue
				}
				if r.MaxRate.Float64 <= r.CloseRate.Float64 {
					continue
				}
				p := pairJSON{
					Pair:            r.Pair,
					OpenRate:        r.OpenRate,
					MaxRate:         r.MaxRate.Float64,
					CloseRate:       r.CloseRate.Float64,
					PotentialProfit: (r.MaxRate.Float64 - r.OpenRate) / r.OpenRate * 100,
				}
				if r.CloseProfit.Valid {
					p.CloseProfit = r.CloseProfit.Float64 * 100
				}
				missed = append(missed, p)
			}

			if out.IsJSON() {
				return out.JSON(map[string]interface{}{
					"closed_trades": len(reports),
					"missed":        missed,
				})
			}

			for i, p := range missed {
				out.Bold("%d. %s", i+1, p.Pair)
				out.Printf("   Open:             %.8f\n", p.OpenRate)
				out.Printf("   Max:              %.8f\n", p.MaxRate)
				out.Printf("   Close:            %.8f\n", p.CloseRate)
				out.Printf("   Close Profit:     %s\n", utils.FormatPercent(p.CloseProfit))
				out.Printf("   Potential Profit: %s\n", utils.FormatPercent(p.PotentialProfit))
			}
			out.Println()
			out.Printf("%d of %d closed trade(s) peaked above their close rate.\n", len(missed), len(reports))
			return nil
		},
	}
}

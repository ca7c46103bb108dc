package analytics

import (
	"trade-analyst/internal/config"
	apperrors "trade-analyst/internal/errors"
)

// Share is one investor's slice of the daily profit. Ratios across all
// shares sum to exactly 1: non-lead ratios are computed pro-rata net of
// commission and the lead absorbs the residual.
type Share struct {
	Investor config.Investor
	Ratio    float64
	Profit   float64
}

// Apportion splits dailyProfit across the investor set. Ratios are
// re-derived on every run from the configured investments and commissions;
// they are never persisted. An empty or zero-investment set is a fatal
// configuration error, surfaced before any output is written.
func Apportion(investors []config.Investor, dailyProfit float64) ([]Share, error) {
	if len(investors) == 0 {
		return nil, apperrors.ErrNoInvestors
	}

	total := 0.0
	lead := -1
	for i, inv := range investors {
		total += inv.Investment
		if inv.Lead {
			lead = i
		}
	}
	if total <= 0 {
		return nil, apperrors.ErrNoInvestors
	}
	if lead < 0 {
		return nil, apperrors.ErrNoLeadInvestor
	}

	shares := make([]Share, len(investors))
	residual := 1.0
	for i, inv := range investors {
		if i == lead {
			continue
		}
		ratio := inv.Investment / total * (1 - inv.Commission)
		shares[i] = Share{Investor: inv, Ratio: ratio}
		residual -= ratio
	}
	shares[lead] = Share{Investor: investors[lead], Ratio: residual}

	for i := range shares {
		shares[i].Profit = shares[i].Ratio * dailyProfit
	}

	return shares, nil
}

package analytics

import "trade-analyst/internal/models"

// BuildSnapshots merges the balance reading, aggregates and apportionment
// into one record per investor. A pure mapping: values stay unrounded here,
// formatting belongs to the presentation boundary.
func BuildSnapshots(date, runID string, balance float64, totals Totals, stakeAmount float64, shares []Share) []models.DailySnapshot {
	base := models.DailySnapshot{
		Date:            date,
		RunID:           runID,
		AccountBalance:  balance,
		DailyProfit:     totals.DailyProfit,
		DailyTradeCount: totals.DailyTradeCount,
		StakeAmount:     stakeAmount,
		DailyInvestment: totals.DailyInvestment,
		DailyROI:        totals.DailyROI,
		TotalInvestment: totals.TotalInvestment,
		TotalROI:        totals.TotalROI,
	}

	out := make([]models.DailySnapshot, len(shares))
	for i, share := range shares {
		snap := base
		snap.Investor = share.Investor.ID
		snap.ProfitShare = share.Profit
		out[i] = snap
	}
	return out
}

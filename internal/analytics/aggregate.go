package analytics

import (
	"math"

	"trade-analyst/internal/models"
)

// Totals holds the aggregate figures of one run.
type Totals struct {
	DailyProfit     float64
	TotalProfit     float64
	DailyTradeCount int
	TotalTradeCount int
	DailyInvestment float64
	TotalInvestment float64
	DailyROI        float64
	TotalROI        float64
}

// Aggregate computes the run's figures from the full ledger plus the daily
// ID set.
//
// Daily profit sums realized profit over the ID set regardless of close
// status; total profit only counts closed trades, with null profit values
// skipped rather than zeroed. Total investment sums the stake of every row,
// open trades included, while profit only counts closed ones: the committed
// capital of an open position already counts against the return it has not
// yet produced.
func Aggregate(trades []models.TradeRecord, dailyIDs map[int64]struct{}, stakeAmount float64) Totals {
	t := Totals{
		DailyTradeCount: len(dailyIDs),
		TotalTradeCount: len(trades),
	}

	for _, trade := range trades {
		if _, ok := dailyIDs[trade.ID]; ok && trade.CloseProfitAbs.Valid {
			t.DailyProfit += trade.CloseProfitAbs.Float64
		}
		if trade.IsClosed() && trade.CloseProfitAbs.Valid {
			t.TotalProfit += trade.CloseProfitAbs.Float64
		}
		t.TotalInvestment += trade.StakeAmount
	}

	t.DailyInvestment = float64(t.DailyTradeCount) * stakeAmount
	t.DailyROI = ROI(t.DailyProfit, t.DailyInvestment)
	t.TotalROI = ROI(t.TotalProfit, t.TotalInvestment)

	return t
}

// ROI returns profit over investment as a percentage. It fails closed to 0
// on a zero denominator and never returns a non-finite value.
func ROI(profit, investment float64) float64 {
	if investment == 0 {
		return 0
	}
	r := profit / investment * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

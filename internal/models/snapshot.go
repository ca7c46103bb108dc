package models

// DailySnapshot is the per-investor record emitted once per run. Values are
// kept unrounded; formatting happens only at the presentation boundary.
// The csv tags define the append-log column layout, header written once per
// log file.
type DailySnapshot struct {
	Date            string  `csv:"date"`
	Investor        string  `csv:"investor"`
	RunID           string  `csv:"run_id"`
	AccountBalance  float64 `csv:"account_balance"`
	DailyProfit     float64 `csv:"daily_profit"`
	ProfitShare     float64 `csv:"profit_share"`
	DailyTradeCount int     `csv:"daily_trade_count"`
	StakeAmount     float64 `csv:"stake_amount"`
	DailyInvestment float64 `csv:"daily_investment"`
	DailyROI        float64 `csv:"daily_roi"`
	TotalInvestment float64 `csv:"total_investment"`
	TotalROI        float64 `csv:"total_roi"`
}

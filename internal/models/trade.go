// Package models defines the core value objects shared across the analyst.
package models

import "database/sql"

// Sell order lifecycle tags as recorded by the trading bot.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// TradeRecord is one row of the trade ledger. The ledger is owned by the
// trading bot; the analyst reads every field and writes only the two derived
// timestamp columns.
type TradeRecord struct {
	ID              int64
	Pair            string
	OpenDate        sql.NullString
	CloseDate       sql.NullString
	OpenTimestamp   sql.NullInt64
	CloseTimestamp  sql.NullInt64
	StakeAmount     float64
	CloseProfitAbs  sql.NullFloat64
	SellOrderStatus sql.NullString
}

// IsClosed reports whether the trade has a completed sell order.
// CloseProfitAbs is only meaningful when this returns true.
func (t TradeRecord) IsClosed() bool {
	return t.SellOrderStatus.Valid && t.SellOrderStatus.String == StatusClosed
}

// HasInterval reports whether both derived timestamps have been backfilled.
func (t TradeRecord) HasInterval() bool {
	return t.OpenTimestamp.Valid && t.CloseTimestamp.Valid
}

// PairReport summarizes a closed trade for the missed-profit report.
type PairReport struct {
	Pair        string
	OpenRate    float64
	MaxRate     sql.NullFloat64
	CloseRate   sql.NullFloat64
	CloseProfit sql.NullFloat64
	StakeAmount float64
}

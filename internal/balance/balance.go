// Package balance provides the external account-balance reading consumed by
// the snapshot engine.
package balance

import "context"

// Provider returns the total account value in quote currency. A failing
// provider must return a typed error, never a silent zero: the engine
// aborts the run rather than snapshot a fabricated balance.
type Provider interface {
	TotalBalance(ctx context.Context) (float64, error)
}

// Static is a fixed balance reading, for tests and offline runs.
type Static struct {
	Value float64
}

// TotalBalance returns the fixed value.
func (s Static) TotalBalance(context.Context) (float64, error) {
	return s.Value, nil
}

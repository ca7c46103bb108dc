package analytics

import (
	"sort"

	"trade-analyst/internal/models"
)

// Interval is one trade's open period on the offset-adjusted epoch axis.
type Interval struct {
	Open  int64
	Close int64
}

// Intervals extracts the open periods of every trade with both timestamps
// backfilled. Intervals whose close precedes their open are bad source data
// and dropped.
func Intervals(trades []models.TradeRecord) []Interval {
	var out []Interval
	for _, t := range trades {
		if !t.HasInterval() {
			continue
		}
		iv := Interval{Open: t.OpenTimestamp.Int64, Close: t.CloseTimestamp.Int64}
		if iv.Close < iv.Open {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// MaxOpenTrades returns the maximum number of trades simultaneously open at
// any instant, via an event sweep over interval endpoints.
//
// Intervals are treated as half-open [open, close): at equal timestamps the
// close is processed before the open, so a trade closing at t and another
// opening at t never count as concurrent. The empty set yields 0.
func MaxOpenTrades(intervals []Interval) int {
	if len(intervals) == 0 {
		return 0
	}

	type event struct {
		at    int64
		delta int
	}
	events := make([]event, 0, 2*len(intervals))
	for _, iv := range intervals {
		events = append(events, event{at: iv.Open, delta: +1})
		events = append(events, event{at: iv.Close, delta: -1})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		// Close before open at the same instant.
		return events[i].delta < events[j].delta
	})

	open, max := 0, 0
	for _, e := range events {
		open += e.delta
		if open > max {
			max = open
		}
	}
	return max
}

package analytics

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"trade-analyst/internal/models"
)

func TestMaxOpenTrades(t *testing.T) {
	cases := []struct {
		name      string
		intervals []Interval
		want      int
	}{
		{"empty", nil, 0},
		{"single", []Interval{{0, 10}}, 1},
		{"overlapping", []Interval{{0, 10}, {5, 15}}, 2},
		{"disjoint", []Interval{{0, 10}, {20, 30}}, 1},
		{"nested", []Interval{{0, 100}, {10, 20}, {30, 40}}, 2},
		{"triple overlap", []Interval{{0, 10}, {2, 12}, {4, 14}}, 3},
		{"zero width", []Interval{{5, 5}}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MaxOpenTrades(tc.intervals))
		})
	}
}

// A trade closing at t and another opening at t are never concurrent.
func TestMaxOpenTradesTouchingIntervals(t *testing.T) {
	assert.Equal(t, 1, MaxOpenTrades([]Interval{{0, 10}, {10, 20}}))
	assert.Equal(t, 1, MaxOpenTrades([]Interval{{10, 20}, {0, 10}}))
}

func TestIntervalsFiltersIncompleteRows(t *testing.T) {
	trades := []models.TradeRecord{
		{
			ID:             1,
			OpenTimestamp:  sql.NullInt64{Int64: 5, Valid: true},
			CloseTimestamp: sql.NullInt64{Int64: 15, Valid: true},
		},
		{ID: 2, OpenTimestamp: sql.NullInt64{Int64: 5, Valid: true}}, // still open
		{ID: 3}, // never backfilled
		{
			ID:             4,
			OpenTimestamp:  sql.NullInt64{Int64: 20, Valid: true},
			CloseTimestamp: sql.NullInt64{Int64: 10, Valid: true}, // inverted
		},
	}

	got := Intervals(trades)
	assert.Equal(t, []Interval{{Open: 5, Close: 15}}, got)
}

// Property: the sweep result is bounded by the interval count and matches a
// brute-force count of open intervals at every endpoint.
func TestProperty_MaxOpenTradesMatchesBruteForce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	intervalGen := gen.SliceOf(
		gen.Int64Range(0, 500).FlatMap(func(v interface{}) gopter.Gen {
			open := v.(int64)
			return gen.Int64Range(open+1, open+500).Map(func(close int64) Interval {
				return Interval{Open: open, Close: close}
			})
		}, reflect.TypeOf(Interval{})),
	)

	properties.Property("sweep equals brute force", prop.ForAll(
		func(intervals []Interval) bool {
			got := MaxOpenTrades(intervals)
			if got > len(intervals) {
				return false
			}

			want := 0
			for _, probe := range intervals {
				open := 0
				for _, iv := range intervals {
					if iv.Open <= probe.Open && probe.Open < iv.Close {
						open++
					}
				}
				if open > want {
					want = open
				}
			}
			return got == want
		},
		intervalGen,
	))

	properties.TestingRun(t)
}

// Package analytics implements the snapshot engine: timestamp backfill,
// day-window selection, profit aggregation, investor apportionment and the
// concurrent-open-trades sweep.
package analytics

import (
	"time"

	"trade-analyst/internal/models"
)

// SecondsPerDay is the width of the reporting window.
const SecondsPerDay = 86400

// DayStart returns T, the epoch-second start of the current civil day as
// observed in the configured offset zone, shifted by the same offset the
// stored timestamps carry. It is computed once per run so the window stays
// stable for the run's duration.
func DayStart(now time.Time, offsetSeconds int) int64 {
	local := now.In(time.FixedZone("ledger", offsetSeconds))
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Unix() + int64(offsetSeconds)
}

// WindowDate returns the civil date of the completed day reported by a run
// whose window ends at dayStart.
func WindowDate(dayStart int64, offsetSeconds int) string {
	midnight := time.Unix(dayStart-int64(offsetSeconds), 0).UTC()
	return midnight.AddDate(0, 0, -1).Format("2006-01-02")
}

// SelectDailyIDs returns the IDs of trades whose close timestamp lies in
// [dayStart-86400, dayStart). Open trades have no close timestamp and are
// excluded by construction. Pure over (trades, dayStart).
func SelectDailyIDs(trades []models.TradeRecord, dayStart int64) map[int64]struct{} {
	ids := make(map[int64]struct{})
	from := dayStart - SecondsPerDay
	for _, t := range trades {
		if !t.CloseTimestamp.Valid {
			continue
		}
		ts := t.CloseTimestamp.Int64
		if ts >= from && ts < dayStart {
			ids[t.ID] = struct{}{}
		}
	}
	return ids
}

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"trade-analyst/internal/ledger"
	"trade-analyst/internal/logging"
)

// Ledger dates are truncated to minute precision before parsing, matching
// how the trading bot records them.
const dateLayout = "2006-01-02 15:04"

// BackfillResult summarizes one backfill pass.
type BackfillResult struct {
	Updated int // rows whose timestamps were derived and written
	Open    int // rows skipped because the trade has no close date yet
	Failed  int // rows skipped because their dates could not be parsed
}

// BackfillTimestamps ensures every closed ledger row carries derived epoch
// timestamps. Schema extension and the per-row writes are both idempotent:
// re-running only fills remaining gaps. Per-row parse failures are logged
// and skipped; one bad row never aborts the batch. Write failures are
// systemic and abort.
func BackfillTimestamps(ctx context.Context, s *ledger.Session, offsetSeconds int, logger zerolog.Logger) (BackfillResult, error) {
	var res BackfillResult

	if err := s.EnsureTimestampColumns(ctx); err != nil {
		return res, err
	}

	rows, err := s.MissingTimestamps(ctx)
	if err != nil {
		return res, err
	}

	for _, row := range rows {
		if !row.CloseDate.Valid {
			// Trade still open; expected, filled on a later run.
			res.Open++
			logger.Debug().Int64("trade_id", row.ID).Msg("Trade still open, backfill deferred")
			continue
		}
		if !row.OpenDate.Valid {
			res.Failed++
			logging.LogRowSkipped(logger, row.ID, "missing open date", nil)
			continue
		}

		openTS, err := parseLedgerDate(row.OpenDate.String, offsetSeconds)
		if err != nil {
			res.Failed++
			logging.LogRowSkipped(logger, row.ID, "unparseable open date", err)
			continue
		}
		closeTS, err := parseLedgerDate(row.CloseDate.String, offsetSeconds)
		if err != nil {
			res.Failed++
			logging.LogRowSkipped(logger, row.ID, "unparseable close date", err)
			continue
		}

		if err := s.SetTimestamps(ctx, row.ID, openTS, closeTS); err != nil {
			return res, err
		}
		res.Updated++
	}

	return res, nil
}

// parseLedgerDate converts a ledger date string to an offset-adjusted epoch
// second, truncating to minute precision first.
func parseLedgerDate(raw string, offsetSeconds int) (int64, error) {
	if len(raw) < len(dateLayout) {
		return 0, fmt.Errorf("date %q shorter than %q", raw, dateLayout)
	}
	t, err := time.Parse(dateLayout, raw[:len(dateLayout)])
	if err != nil {
		return 0, err
	}
	return t.Unix() + int64(offsetSeconds), nil
}

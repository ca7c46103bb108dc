package analytics

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"trade-analyst/internal/balance"
	"trade-analyst/internal/config"
	apperrors "trade-analyst/internal/errors"
	"trade-analyst/internal/ledger"
	"trade-analyst/internal/logging"
	"trade-analyst/internal/models"
)

// SnapshotWriter appends one record to an investor's persistent log and
// returns the log's path.
type SnapshotWriter interface {
	Append(investor config.Investor, snap models.DailySnapshot) (string, error)
}

// Mailer delivers one investor's snapshot log.
type Mailer interface {
	SendSnapshot(ctx context.Context, investor config.Investor, date, logPath string) error
}

// Engine runs the daily snapshot: one synchronous batch per invocation over
// an exclusively-owned ledger session. Writer and Mailer may be nil to skip
// the corresponding output adapter.
type Engine struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Balance balance.Provider
	Writer  SnapshotWriter
	Mailer  Mailer
}

// RunResult is everything one run computed and emitted.
type RunResult struct {
	RunID        string
	Date         string
	Balance      float64
	Totals       Totals
	Shares       []Share
	Snapshots    []models.DailySnapshot
	Backfill     BackfillResult
	OutputErrors []error
}

// Run executes one snapshot batch for the day completed before now.
//
// Systemic failures (missing ledger, balance service, misconfigured
// investors) abort before any output row is written. Per-investor output
// failures are collected in RunResult.OutputErrors so that one investor's
// broken log or mailbox never blocks the others.
func (e *Engine) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	runID := ulid.Make().String()
	logger := logging.WithRun(e.Logger, runID)

	session, err := ledger.Open(e.Config.Ledger.Path)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	offset := e.Config.Snapshot.UTCOffsetSeconds

	backfill, err := BackfillTimestamps(ctx, session, offset, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("updated", backfill.Updated).
		Int("open", backfill.Open).
		Int("failed", backfill.Failed).
		Msg("Timestamp backfill complete")

	trades, err := session.AllTrades(ctx)
	if err != nil {
		return nil, err
	}

	dayStart := DayStart(now, offset)
	dailyIDs := SelectDailyIDs(trades, dayStart)
	date := WindowDate(dayStart, offset)

	totals := Aggregate(trades, dailyIDs, e.Config.Snapshot.StakeAmount)

	// The balance reading comes before any output: a failed reading aborts
	// the run rather than persisting a fabricated value.
	bal, err := e.Balance.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}

	shares, err := Apportion(e.Config.Investors, totals.DailyProfit)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:     runID,
		Date:      date,
		Balance:   bal,
		Totals:    totals,
		Shares:    shares,
		Backfill:  backfill,
		Snapshots: BuildSnapshots(date, runID, bal, totals, e.Config.Snapshot.StakeAmount, shares),
	}

	if e.Writer == nil {
		return result, nil
	}

	for i, snap := range result.Snapshots {
		inv := shares[i].Investor

		logPath, err := e.Writer.Append(inv, snap)
		if err != nil {
			outErr := apperrors.NewOutputError(inv.ID, "csv", err)
			logging.LogOutputFailure(logger, inv.ID, "csv", err)
			result.OutputErrors = append(result.OutputErrors, outErr)
			continue
		}
		logging.LogSnapshotRow(logger, inv.ID, date, snap.ProfitShare)

		if e.Mailer == nil || inv.Email == "" {
			continue
		}
		if err := e.Mailer.SendSnapshot(ctx, inv, date, logPath); err != nil {
			outErr := apperrors.NewOutputError(inv.ID, "email", err)
			logging.LogOutputFailure(logger, inv.ID, "email", err)
			result.OutputErrors = append(result.OutputErrors, outErr)
		}
	}

	return result, nil
}

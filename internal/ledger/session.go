// Package ledger provides read and backfill access to the trade ledger
// owned by the trading bot.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	apperrors "trade-analyst/internal/errors"
	"trade-analyst/internal/models"
)

// Session is the exclusively-owned ledger connection for one run. Open it at
// the start of a run and defer Close; no component holds it beyond the run.
type Session struct {
	db   *sql.DB
	path string
}

// Open opens the ledger at path. The file must already exist: the ledger is
// created by the trading bot, never by the analyst.
func Open(path string) (*Session, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrLedgerNotFound, path)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.NewLedgerError("open", err)
	}
	// One run, one connection.
	db.SetMaxOpenConns(1)

	return &Session{db: db, path: path}, nil
}

// Close releases the ledger connection.
func (s *Session) Close() error {
	return s.db.Close()
}

// Path returns the ledger location.
func (s *Session) Path() string {
	return s.path
}

// EnsureTimestampColumns adds the derived timestamp columns if absent. The
// columns already existing is the expected steady state, not an error, so
// this is safe to run on every invocation.
func (s *Session) EnsureTimestampColumns(ctx context.Context) error {
	for _, column := range []string{"open_timestamp", "close_timestamp"} {
		_, err := s.db.ExecContext(ctx, "ALTER TABLE trades ADD "+column+" INTEGER")
		if err != nil && !isDuplicateColumn(err) {
			return apperrors.NewLedgerError("add column "+column, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// BackfillRow is one ledger row still lacking derived timestamps.
type BackfillRow struct {
	ID        int64
	OpenDate  sql.NullString
	CloseDate sql.NullString
}

// MissingTimestamps returns the rows whose close_timestamp has not been
// derived yet. Rows already backfilled are never revisited, which is what
// makes the backfill idempotent and resumable.
func (s *Session) MissingTimestamps(ctx context.Context) ([]BackfillRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, open_date, close_date
		FROM trades
		WHERE close_timestamp IS NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apperrors.NewLedgerError("select missing timestamps", err)
	}
	defer rows.Close()

	var out []BackfillRow
	for rows.Next() {
		var r BackfillRow
		if err := rows.Scan(&r.ID, &r.OpenDate, &r.CloseDate); err != nil {
			return nil, apperrors.NewLedgerError("scan missing timestamps", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLedgerError("iterate missing timestamps", err)
	}
	return out, nil
}

// SetTimestamps writes both derived timestamps for one row in a single
// transaction. A crash between rows leaves earlier rows committed; the next
// run fills the rest.
func (s *Session) SetTimestamps(ctx context.Context, tradeID, openTS, closeTS int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewLedgerError("begin timestamp update", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE trades SET open_timestamp = ? WHERE id = ?", openTS, tradeID); err != nil {
		return apperrors.NewLedgerError("update open_timestamp", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE trades SET close_timestamp = ? WHERE id = ?", closeTS, tradeID); err != nil {
		return apperrors.NewLedgerError("update close_timestamp", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewLedgerError("commit timestamp update", err)
	}
	return nil
}

// AllTrades loads the full ledger into memory; one run works entirely off
// this snapshot of the table.
func (s *Session) AllTrades(ctx context.Context) ([]models.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pair, open_date, close_date, open_timestamp, close_timestamp,
		       stake_amount, close_profit_abs, sell_order_status
		FROM trades
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apperrors.NewLedgerError("select trades", err)
	}
	defer rows.Close()

	var out []models.TradeRecord
	for rows.Next() {
		var t models.TradeRecord
		if err := rows.Scan(
			&t.ID,
			&t.Pair,
			&t.OpenDate,
			&t.CloseDate,
			&t.OpenTimestamp,
			&t.CloseTimestamp,
			&t.StakeAmount,
			&t.CloseProfitAbs,
			&t.SellOrderStatus,
		); err != nil {
			return nil, apperrors.NewLedgerError("scan trade", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLedgerError("iterate trades", err)
	}
	return out, nil
}

// CountTrades returns the total number of ledger rows, open and closed.
func (s *Session) CountTrades(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trades").Scan(&n)
	if err != nil {
		return 0, apperrors.NewLedgerError("count trades", err)
	}
	return n, nil
}

// PairReports returns rate details of every closed trade for the
// missed-profit report.
func (s *Session) PairReports(ctx context.Context) ([]models.PairReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pair, open_rate, max_rate, close_rate, close_profit, stake_amount
		FROM trades
		WHERE sell_order_status = ?
	`, models.StatusClosed)
	if err != nil {
		return nil, apperrors.NewLedgerError("select pair reports", err)
	}
	defer rows.Close()

	var out []models.PairReport
	for rows.Next() {
		var r models.PairReport
		if err := rows.Scan(
			&r.Pair,
			&r.OpenRate,
			&r.MaxRate,
			&r.CloseRate,
			&r.CloseProfit,
			&r.StakeAmount,
		); err != nil {
			return nil, apperrors.NewLedgerError("scan pair report", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewLedgerError("iterate pair reports", err)
	}
	return out, nil
}

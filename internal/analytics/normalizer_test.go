package analytics

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-analyst/internal/ledger"
)

// newBotLedger creates a ledger file the way the trading bot leaves it:
// trades table present, derived timestamp columns absent.
func newBotLedger(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tradesv3.sqlite")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE trades (
			id INTEGER PRIMARY KEY,
			pair TEXT NOT NULL,
			open_date TEXT,
			close_date TEXT,
			open_rate REAL NOT NULL DEFAULT 0,
			max_rate REAL,
			close_rate REAL,
			close_profit REAL,
			close_profit_abs REAL,
			stake_amount REAL NOT NULL DEFAULT 0,
			sell_order_status TEXT
		)
	`)
	require.NoError(t, err)

	for _, row := range rows {
		_, err = db.Exec("INSERT INTO trades (pair, open_date, close_date, stake_amount, close_profit_abs, sell_order_status) " + row)
		require.NoError(t, err)
	}
	return path
}

func TestBackfillTimestamps(t *testing.T) {
	path := newBotLedger(t,
		`VALUES ('BTC/USDT', '2026-03-14 10:00:00', '2026-03-14 12:30:45', 87.5, 1.0, 'closed')`,
		`VALUES ('ETH/USDT', '2026-03-14 11:00:00', NULL, 87.5, NULL, 'open')`,
		`VALUES ('XRP/USDT', 'garbage', '2026-03-14 13:00:00', 87.5, 0.5, 'closed')`,
	)
	ctx := context.Background()

	s, err := ledger.Open(path)
	require.NoError(t, err)
	defer s.Close()

	res, err := BackfillTimestamps(ctx, s, testOffset, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Open)
	assert.Equal(t, 1, res.Failed)

	trades, err := s.AllTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 3)

	// Dates parse at minute precision, seconds dropped, offset applied.
	wantOpen := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC).Unix() + testOffset
	wantClose := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC).Unix() + testOffset
	assert.Equal(t, wantOpen, trades[0].OpenTimestamp.Int64)
	assert.Equal(t, wantClose, trades[0].CloseTimestamp.Int64)

	assert.False(t, trades[1].HasInterval())
	assert.False(t, trades[2].HasInterval())
}

func TestBackfillTimestampsIdempotent(t *testing.T) {
	path := newBotLedger(t,
		`VALUES ('BTC/USDT', '2026-03-14 10:00:00', '2026-03-14 12:30:00', 87.5, 1.0, 'closed')`,
	)
	ctx := context.Background()

	s, err := ledger.Open(path)
	require.NoError(t, err)
	defer s.Close()

	res, err := BackfillTimestamps(ctx, s, testOffset, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	// Everything already derived; the second pass writes nothing.
	res, err = BackfillTimestamps(ctx, s, testOffset, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, res.Updated)
	assert.Zero(t, res.Failed)
}

func TestParseLedgerDate(t *testing.T) {
	ts, err := parseLedgerDate("2026-03-14 12:30:45.123456", testOffset)
	require.NoError(t, err)
	want := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC).Unix() + testOffset
	assert.Equal(t, want, ts)

	_, err = parseLedgerDate("not a date at all", testOffset)
	assert.Error(t, err)

	_, err = parseLedgerDate("2026", testOffset)
	assert.Error(t, err)
}

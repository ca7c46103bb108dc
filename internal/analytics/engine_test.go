package analytics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-analyst/internal/balance"
	"trade-analyst/internal/config"
	apperrors "trade-analyst/internal/errors"
	"trade-analyst/internal/models"
	"trade-analyst/internal/output"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendSnapshot(_ context.Context, inv config.Investor, date, logPath string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, inv.ID)
	return nil
}

type failingWriter struct{}

func (failingWriter) Append(config.Investor, models.DailySnapshot) (string, error) {
	return "", errors.New("disk full")
}

func engineConfig(ledgerPath, outputDir string) *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{Path: ledgerPath},
		Snapshot: config.SnapshotConfig{
			StakeAmount:      140,
			UTCOffsetSeconds: testOffset,
			OutputTemplate:   filepath.Join(outputDir, "daily_{investor}.csv"),
			QuoteCurrency:    "USDT",
		},
		Investors: []config.Investor{
			{ID: "lead", Investment: 500, Lead: true, Email: "lead@example.com"},
			{ID: "partner", Investment: 200, Commission: 0.5, Email: "partner@example.com"},
		},
	}
}

func TestEngineRun(t *testing.T) {
	// Two trades closed yesterday (UTC+3), one older, one still open.
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	path := newBotLedger(t,
		`VALUES ('BTC/USDT', '2026-03-14 07:00:00', '2026-03-14 09:30:00', 140, 12.5, 'closed')`,
		`VALUES ('ETH/USDT', '2026-03-14 10:00:00', '2026-03-14 18:00:00', 140, -3.0, 'closed')`,
		`VALUES ('XRP/USDT', '2026-03-01 10:00:00', '2026-03-01 11:00:00', 140, 40.0, 'closed')`,
		`VALUES ('ADA/USDT', '2026-03-14 20:00:00', NULL, 140, NULL, 'open')`,
	)
	outDir := t.TempDir()
	mailer := &recordingMailer{}

	eng := &Engine{
		Config:  engineConfig(path, outDir),
		Logger:  zerolog.Nop(),
		Balance: balance.Static{Value: 1500},
		Writer:  output.NewCSVWriter(filepath.Join(outDir, "daily_{investor}.csv")),
		Mailer:  mailer,
	}

	res, err := eng.Run(context.Background(), now)
	require.NoError(t, err)
	require.Empty(t, res.OutputErrors)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "2026-03-14", res.Date)
	assert.InDelta(t, 1500, res.Balance, 1e-9)
	assert.Equal(t, 4, res.Backfill.Updated+res.Backfill.Open+res.Backfill.Failed)

	assert.InDelta(t, 9.5, res.Totals.DailyProfit, 1e-9)
	assert.Equal(t, 2, res.Totals.DailyTradeCount)
	assert.InDelta(t, 280, res.Totals.DailyInvestment, 1e-9)
	assert.InDelta(t, 3.392857, res.Totals.DailyROI, 1e-5)
	assert.InDelta(t, 49.5, res.Totals.TotalProfit, 1e-9)
	assert.InDelta(t, 560, res.Totals.TotalInvestment, 1e-9)

	require.Len(t, res.Snapshots, 2)
	assert.InDelta(t, 9.5*0.857143, res.Snapshots[0].ProfitShare, 1e-4)
	assert.InDelta(t, 9.5*0.142857, res.Snapshots[1].ProfitShare, 1e-4)

	// One log per investor, one row each, mail sent for both.
	for _, id := range []string{"lead", "partner"} {
		data, err := os.ReadFile(filepath.Join(outDir, "daily_"+id+".csv"))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 2, "header plus one row for %s", id)
		assert.Contains(t, lines[1], res.RunID)
	}
	assert.Equal(t, []string{"lead", "partner"}, mailer.sent)
}

func TestEngineRunAppendsAcrossRuns(t *testing.T) {
	path := newBotLedger(t,
		`VALUES ('BTC/USDT', '2026-03-14 07:00:00', '2026-03-14 09:30:00', 140, 12.5, 'closed')`,
	)
	outDir := t.TempDir()

	eng := &Engine{
		Config:  engineConfig(path, outDir),
		Logger:  zerolog.Nop(),
		Balance: balance.Static{Value: 1500},
		Writer:  output.NewCSVWriter(filepath.Join(outDir, "daily_{investor}.csv")),
	}

	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	_, err := eng.Run(context.Background(), now)
	require.NoError(t, err)
	_, err = eng.Run(context.Background(), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "daily_lead.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3, "second run appends under the same header")
}

func TestEngineRunMissingLedger(t *testing.T) {
	eng := &Engine{
		Config:  engineConfig(filepath.Join(t.TempDir(), "missing.sqlite"), t.TempDir()),
		Logger:  zerolog.Nop(),
		Balance: balance.Static{Value: 1500},
	}

	_, err := eng.Run(context.Background(), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrLedgerNotFound)
}

func TestEngineRunOutputErrorsDoNotAbort(t *testing.T) {
	path := newBotLedger(t,
		`VALUES ('BTC/USDT', '2026-03-14 07:00:00', '2026-03-14 09:30:00', 140, 12.5, 'closed')`,
	)

	eng := &Engine{
		Config:  engineConfig(path, t.TempDir()),
		Logger:  zerolog.Nop(),
		Balance: balance.Static{Value: 1500},
		Writer:  failingWriter{},
	}

	res, err := eng.Run(context.Background(), time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err, "per-investor output failures never abort the run")

	require.Len(t, res.OutputErrors, 2, "one failure per investor, none blocking the next")
	var outErr *apperrors.OutputError
	require.ErrorAs(t, res.OutputErrors[0], &outErr)
	assert.Equal(t, "csv", outErr.Channel)
}

func TestEngineRunMailFailureIsCollected(t *testing.T) {
	path := newBotLedger(t,
		`VALUES ('BTC/USDT', '2026-03-14 07:00:00', '2026-03-14 09:30:00', 140, 12.5, 'closed')`,
	)
	outDir := t.TempDir()

	eng := &Engine{
		Config:  engineConfig(path, outDir),
		Logger:  zerolog.Nop(),
		Balance: balance.Static{Value: 1500},
		Writer:  output.NewCSVWriter(filepath.Join(outDir, "daily_{investor}.csv")),
		Mailer:  &recordingMailer{err: errors.New("smtp down")},
	}

	res, err := eng.Run(context.Background(), time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Len(t, res.OutputErrors, 2)
	// CSV rows still made it out.
	assert.FileExists(t, filepath.Join(outDir, "daily_lead.csv"))
	assert.FileExists(t, filepath.Join(outDir, "daily_partner.csv"))
}

package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-analyst/internal/config"
	"trade-analyst/internal/models"
)

func TestCSVWriterPath(t *testing.T) {
	w := NewCSVWriter("/var/log/analyst/{investor}.csv")
	assert.Equal(t, "/var/log/analyst/alice.csv", w.Path("alice"))
}

func TestCSVWriterAppend(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(filepath.Join(dir, "{investor}.csv"))
	inv := config.Investor{ID: "alice"}

	snap := models.DailySnapshot{
		Date:        "2026-03-14",
		Investor:    "alice",
		RunID:       "01HRUN",
		ProfitShare: 8.14,
	}

	path, err := w.Append(inv, snap)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alice.csv"), path)

	snap.Date = "2026-03-15"
	_, err = w.Append(inv, snap)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	// One header plus one row per run.
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "date,investor,run_id"), "header: %s", lines[0])
	assert.Contains(t, lines[1], "2026-03-14")
	assert.Contains(t, lines[2], "2026-03-15")
	assert.Equal(t, 1, strings.Count(string(data), "date,investor"), "header written once")
}

func TestCSVWriterCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(filepath.Join(dir, "logs", "deep", "{investor}.csv"))

	path, err := w.Append(config.Investor{ID: "bob"}, models.DailySnapshot{Date: "2026-03-14"})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestCSVWriterSeparateLogsPerInvestor(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(filepath.Join(dir, "{investor}.csv"))

	pa, err := w.Append(config.Investor{ID: "alice"}, models.DailySnapshot{Investor: "alice"})
	require.NoError(t, err)
	pb, err := w.Append(config.Investor{ID: "bob"}, models.DailySnapshot{Investor: "bob"})
	require.NoError(t, err)

	assert.NotEqual(t, pa, pb)

	data, err := os.ReadFile(pa)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "bob")
}

// Package output provides the snapshot output adapters: per-investor CSV
// append logs and email delivery.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"trade-analyst/internal/config"
	"trade-analyst/internal/models"
)

// CSVWriter appends snapshot rows to one log file per investor. The header
// row is written once, when the log is created.
type CSVWriter struct {
	template string
}

// NewCSVWriter creates a writer over the configured path template;
// "{investor}" in the template is replaced with the investor id.
func NewCSVWriter(template string) *CSVWriter {
	return &CSVWriter{template: template}
}

// Path resolves one investor's log path.
func (w *CSVWriter) Path(investorID string) string {
	return strings.ReplaceAll(w.template, "{investor}", investorID)
}

// Append writes one snapshot row to the investor's log and returns the
// log's path.
func (w *CSVWriter) Append(inv config.Investor, snap models.DailySnapshot) (string, error) {
	path := w.Path(inv.ID)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	info, err := os.Stat(path)
	fresh := err != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("opening snapshot log: %w", err)
	}
	defer f.Close()

	rows := []*models.DailySnapshot{&snap}
	if fresh {
		err = gocsv.Marshal(rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, f)
	}
	if err != nil {
		return "", fmt.Errorf("writing snapshot row: %w", err)
	}

	return path, nil
}

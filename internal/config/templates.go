package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Analyst Configuration

[ledger]
# Path to the trade ledger written by the trading bot (SQLite).
path = ""

[snapshot]
# Per-trade stake size currently in effect, in quote currency.
stake_amount = 87.5
# Offset added to parsed ledger dates, in seconds (UTC+3 = 10800).
utc_offset_seconds = 10800
# Per-investor snapshot log path; {investor} is replaced with the investor id.
output_template = ""
# Quote currency all figures are denominated in.
quote_currency = "USDT"

# One [[investors]] block per capital contributor. Exactly one must carry
# lead = true; the lead's commission must be 0.
[[investors]]
id = "lead"
investment = 500.0
commission = 0.0
email = ""
lead = true

[[investors]]
id = "partner"
investment = 200.0
commission = 0.5
email = ""
lead = false

[notifications]
# Enable notifications
enabled = false

[notifications.email]
enabled = false
smtp_host = ""
smtp_port = 465
username = ""
password = ""
from = ""
`

const credentialsTemplate = `# Trade Analyst Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[binance]
api_key = ""
api_secret = ""
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("no configuration found; template created at %s, edit it and re-run", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	// Missing credentials only matter for the live balance reading; runs
	// with a static balance still work.
	return nil
}

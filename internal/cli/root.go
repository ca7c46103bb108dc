package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-analyst/internal/config"
	apperrors "trade-analyst/internal/errors"
	"trade-analyst/internal/logging"
	"trade-analyst/pkg/utils"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigErr error
	Logger    zerolog.Logger
}

// requireConfig returns the loaded configuration or the error that kept it
// from loading. Commands that only inspect paths or versions don't call it.
func (a *App) requireConfig() (*config.Config, error) {
	if a.Config == nil {
		return nil, apperrors.Wrap(a.ConfigErr, "configuration required")
	}
	return a.Config, nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, cfgErr error, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		ConfigErr: cfgErr,
		Logger:    logger,
	}

	rootCmd := &cobra.Command{
		Use:   "analyst",
		Short: "Daily trading ledger snapshot analyst",
		Long: `Analyst reconciles the trading bot's ledger once per day: it backfills
derived timestamps, aggregates daily and all-time profit, investment and ROI,
splits the daily profit across the configured investors, and appends one row
to each investor's snapshot log.

Use 'analyst snapshot' for the full daily run, or the individual commands
(backfill, maxopen, pairs) for a single step.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-analyst)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newBackfillCmd(app))
	rootCmd.AddCommand(newMaxOpenCmd(app))
	rootCmd.AddCommand(newPairsCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Trade Analyst v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(cfg)
			}
			return showConfig(output, cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg, err := app.requireConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Ledger")
	output.Printf("  Path:            %s\n", cfg.Ledger.Path)
	output.Println()

	output.Bold("Snapshot")
	output.Printf("  Stake Amount:    %s\n", utils.FormatAmount(cfg.Snapshot.StakeAmount, cfg.Snapshot.QuoteCurrency))
	output.Printf("  UTC Offset:      %ds\n", cfg.Snapshot.UTCOffsetSeconds)
	output.Printf("  Output Template: %s\n", cfg.Snapshot.OutputTemplate)
	output.Println()

	output.Bold("Investors")
	for _, inv := range cfg.Investors {
		role := ""
		if inv.Lead {
			role = " (lead)"
		}
		output.Printf("  %-12s invested %s, commission %.0f%%%s\n",
			inv.ID,
			utils.FormatAmount(inv.Investment, cfg.Snapshot.QuoteCurrency),
			inv.Commission*100,
			role,
		)
	}
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:         %v\n", cfg.Notifications.Enabled)
	output.Printf("  Email:           %v\n", cfg.Notifications.Email.Enabled)

	return nil
}

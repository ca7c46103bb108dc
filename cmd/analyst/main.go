package main

import (
	"fmt"
	"os"
	"strings"

	"trade-analyst/internal/cli"
	"trade-analyst/internal/config"
	"trade-analyst/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	// The config directory flag has to be known before cobra parses
	// anything, so scan the raw arguments for it.
	configDir := configDirFromArgs(os.Args[1:])
	if configDir == "" {
		configDir = config.DefaultConfigDir()
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		// Commands that need the config report this themselves; the
		// rest (version, config path) still work without one.
		logger.Debug().Err(err).Str("dir", configDir).Msg("Config not loaded")
	}

	rootCmd := cli.NewRootCmd(cfg, err, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

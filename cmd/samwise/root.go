// Root command for the samwise CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/samwise/internal/logging"
	"github.com/mesh-intelligence/samwise/internal/paths"
)

const exitUserError = 1

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagLogLevel  string
	flagJSON      bool
)

// Set by PersistentPreRunE so all subcommands can use them.
var (
	cfg    *viper.Viper
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:           "samwise",
	Short:         "Samwise reconciles task and subtask patches into local state",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = v

		level := flagLogLevel
		if level == "" {
			level = v.GetString(cfgKeyLogLevel)
		}
		l, err := logging.New(os.Stderr, level, v.GetString(cfgKeyLogFormat))
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (default: config log_level)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(subtaskCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(bannerCmd)
}

// resolveDataDir applies the precedence --data-dir flag > config.yaml
// data_dir > SAMWISE_DATA_DIR env > platform default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))
}

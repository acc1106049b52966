// Init command for the samwise CLI.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/internal/patchlog"
	"github.com/mesh-intelligence/samwise/internal/paths"
	"github.com/mesh-intelligence/samwise/internal/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize samwise storage",
	Long: `Init creates the configuration directory with a default config.yaml,
the data directory with the order database, and an empty patch log.
Existing files are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		s, err := openSession()
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer s.close()

		if err := patchlog.Append(s.logPath); err != nil {
			return fmt.Errorf("init: %w", err)
		}

		info := map[string]string{
			"config": filepath.Join(configDir, paths.ConfigFile),
			"data":   s.config.DataDir,
			"orders": filepath.Join(s.config.DataDir, sqlite.DBFile),
			"log":    s.logPath,
			"owner":  s.config.Owner,
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "samwise initialized")
		for _, k := range []string{"config", "data", "orders", "log", "owner"} {
			fmt.Fprintf(out, "  %-7s %s\n", k+":", info[k])
		}
		return nil
	},
}

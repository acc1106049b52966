package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/internal/patchlog"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite the patch log as the minimal patches for the current state",
	Long: `Compact replaces the patch log with one creation patch per stream that
rebuilds the current state. Subtasks that are still waiting for their task
and declared subtasks that never arrived are kept as they are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		patches := patchlog.Compact(s.state())
		if err := patchlog.Rewrite(s.logPath, patches); err != nil {
			return fmt.Errorf("compact: %w", err)
		}
		logger.Info("patch log compacted", "before", s.patches, "after", len(patches))

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]int{"before": s.patches, "after": len(patches)})
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "compacted %d patches into %d\n", s.patches, len(patches))
		return err
	},
}

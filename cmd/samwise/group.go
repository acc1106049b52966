package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

var (
	groupMembers  string
	groupDeadline string
	groupClass    string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
}

var groupAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a group",
	Long: `Add creates a group. The configured owner is always a member.

Example:
  samwise group add "Project team" --members alice,bob --deadline 2026-12-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		id, err := newID()
		if err != nil {
			return err
		}
		var deadline time.Time
		if groupDeadline != "" {
			if deadline, err = types.ParseDateKey(groupDeadline); err != nil {
				return err
			}
		}
		members := []string{s.config.Owner}
		for _, m := range splitList(groupMembers) {
			if m != s.config.Owner {
				members = append(members, m)
			}
		}
		g := types.Group{ID: id, Name: args[0], Members: members, Deadline: deadline, ClassCode: groupClass}
		if err := s.commit(types.GroupsPatch{Created: []types.Group{g}}); err != nil {
			return fmt.Errorf("group add: %w", err)
		}
		return printCreated(cmd, "group", g.ID, g)
	},
}

func init() {
	groupAddCmd.Flags().StringVar(&groupMembers, "members", "", "comma-separated member ids")
	groupAddCmd.Flags().StringVar(&groupDeadline, "deadline", "", "deadline date (YYYY-MM-DD)")
	groupAddCmd.Flags().StringVar(&groupClass, "class", "", "class code")
	groupCmd.AddCommand(groupAddCmd)
}

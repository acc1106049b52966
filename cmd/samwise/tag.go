package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

var tagColor string

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Long: `Add creates a tag with the next tag order and records it in the patch log.

Example:
  samwise tag add "CS 2112" --color blue`,
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
		order, err := s.nextOrder(cmd.Context(), types.OrderTags)
		if err != nil {
			return err
		}
		tag := types.Tag{ID: id, Order: order, Name: args[0], Color: tagColor}
		if err := s.commit(types.TagsPatch{Created: []types.Tag{tag}}); err != nil {
			return fmt.Errorf("tag add: %w", err)
		}
		return printCreated(cmd, "tag", tag.ID, tag)
	},
}

func init() {
	tagAddCmd.Flags().StringVar(&tagColor, "color", "gray", "tag color")
	tagCmd.AddCommand(tagAddCmd)
}

// printCreated reports a created entity: the entity itself under --json,
// its id otherwise.
func printCreated(cmd *cobra.Command, kind, id string, v any) error {
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), v)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "created %s %s\n", kind, id)
	return err
}

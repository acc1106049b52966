package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

var subtaskFocus bool

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage subtasks",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <task-id> <name>",
	Short: "Add a subtask to a task",
	Long: `Add creates a subtask after the existing children of the task. The
subtask and the task edit that declares it are recorded as two patches,
subtask first, the way the two listener streams deliver them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		t, err := s.task(args[0])
		if err != nil {
			return err
		}
		id, err := newID()
		if err != nil {
			return err
		}
		var order int64
		for _, c := range t.Children {
			order = max(order, c.Order+1)
		}
		sub := types.SubTask{ID: id, Order: order, Name: args[1], InFocus: subtaskFocus}

		doc := s.taskDoc(t)
		doc.Children = append(doc.Children, id)
		err = s.commit(
			types.SubTasksPatch{Created: []types.SubTask{sub}},
			types.TasksPatch{Edited: []types.TaskDoc{doc}},
		)
		if err != nil {
			return fmt.Errorf("subtask add: %w", err)
		}
		return printCreated(cmd, "subtask", sub.ID, sub)
	},
}

var subtaskUndo bool

var subtaskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id> <subtask-id>",
	Short: "Mark a subtask complete",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		t, err := s.task(args[0])
		if err != nil {
			return err
		}
		var sub *types.SubTask
		for i := range t.Children {
			if t.Children[i].ID == args[1] {
				sub = &t.Children[i]
			}
		}
		if sub == nil {
			return fmt.Errorf("subtask %s of task %s: %w", args[1], t.ID, types.ErrNotFound)
		}
		edited := *sub
		edited.Complete = !subtaskUndo
		if err := s.commit(types.SubTasksPatch{Edited: []types.SubTask{edited}}); err != nil {
			return fmt.Errorf("subtask complete: %w", err)
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), edited)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "subtask %s complete=%t\n", edited.ID, edited.Complete)
		return err
	},
}

func init() {
	subtaskAddCmd.Flags().BoolVar(&subtaskFocus, "focus", false, "put the subtask in focus")
	subtaskCompleteCmd.Flags().BoolVar(&subtaskUndo, "undo", false, "mark the subtask incomplete")
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskCompleteCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/pkg/selectors"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskDate   string
	taskTag    string
	taskFocus  bool
	taskGroup  string
	taskRepeat string
	taskUntil  string
	taskTimes  int
)

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task",
	Long: `Add creates a one-time task on --date (default today). With --group the
task is shared in that group; with --repeat it is a repeating task starting
on --date.

Repeat patterns:
  weekly:mon,wed      days of the week (sun..sat or 0-6)
  biweekly:1,8        days 0-13 counted from the Sunday on or before --date
  monthly:1,15        days of the month

Example:
  samwise task add "Problem set" --date 2026-10-16 --tag <tag-id> --focus
  samwise task add "Lecture" --repeat weekly:tue,thu --until 2026-12-10`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskAdd,
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	meta, err := taskMetadata(s)
	if err != nil {
		return err
	}
	tag := types.NoneTagID
	if taskTag != "" {
		if _, ok := s.state().Tags.Get(taskTag); !ok {
			return fmt.Errorf("tag %s: %w", taskTag, types.ErrNotFound)
		}
		tag = taskTag
	}

	id, err := newID()
	if err != nil {
		return err
	}
	order, err := s.nextOrder(cmd.Context(), types.OrderTasks)
	if err != nil {
		return err
	}
	doc := types.TaskDoc{
		ID:       id,
		Order:    order,
		Owner:    s.config.Owner,
		Name:     args[0],
		Tag:      tag,
		InFocus:  taskFocus,
		Metadata: meta,
	}
	if err := s.commit(types.TasksPatch{Created: []types.TaskDoc{doc}}); err != nil {
		return fmt.Errorf("task add: %w", err)
	}
	return printCreated(cmd, "task", doc.ID, doc)
}

func taskMetadata(s *session) (types.Metadata, error) {
	date, err := parseDateOrToday(taskDate)
	if err != nil {
		return nil, err
	}
	if taskRepeat != "" && taskGroup != "" {
		return nil, fmt.Errorf("--repeat and --group: %w", types.ErrInvalidMetadata)
	}
	switch {
	case taskGroup != "":
		if _, ok := s.state().Groups.Get(taskGroup); !ok {
			return nil, fmt.Errorf("group %s: %w", taskGroup, types.ErrNotFound)
		}
		return types.GroupTask{Date: date, Group: taskGroup}, nil
	case taskRepeat != "":
		pattern, err := parseRepeat(taskRepeat)
		if err != nil {
			return nil, err
		}
		rd := types.RepeatingDate{StartDate: date, Occurrences: taskTimes, Pattern: pattern}
		if taskUntil != "" {
			if rd.EndDate, err = types.ParseDateKey(taskUntil); err != nil {
				return nil, err
			}
		}
		if err := rd.Validate(); err != nil {
			return nil, err
		}
		return types.MasterTemplate{Date: rd, Forks: []types.Fork{}}, nil
	}
	return types.OneTime{Date: date}, nil
}

var taskUndo bool

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task complete",
	Args:  cobra.ExactArgs(1),
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
		doc := s.taskDoc(t)
		doc.Complete = !taskUndo
		if err := s.commit(types.TasksPatch{Edited: []types.TaskDoc{doc}}); err != nil {
			return fmt.Errorf("task complete: %w", err)
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), doc)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "task %s complete=%t\n", doc.ID, doc.Complete)
		return err
	},
}

var (
	forkDate   string
	forkTo     string
	forkDelete bool
)

var taskForkCmd = &cobra.Command{
	Use:   "fork <id>",
	Short: "Override one occurrence of a repeating task",
	Long: `Fork replaces the occurrence of a repeating task on --date with a one-time
copy on --to (default --date). With --delete the occurrence is removed and
no copy is created.

Example:
  samwise task fork <id> --date 2026-10-20 --to 2026-10-21
  samwise task fork <id> --date 2026-10-27 --delete`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskFork,
}

func runTaskFork(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	t, err := s.task(args[0])
	if err != nil {
		return err
	}
	master, ok := t.Metadata.(types.MasterTemplate)
	if !ok {
		return fmt.Errorf("task %s is not repeating: %w", t.ID, types.ErrInvalidMetadata)
	}
	date, err := types.ParseDateKey(forkDate)
	if err != nil {
		return err
	}
	if !types.DateMatchesRepeats(date, master) {
		return fmt.Errorf("task %s has no occurrence on %s: %w", t.ID, forkDate, types.ErrInvalidDate)
	}

	var patch types.TasksPatch
	fork := types.Fork{ReplaceDate: date}
	if !forkDelete {
		to := date
		if forkTo != "" {
			if to, err = types.ParseDateKey(forkTo); err != nil {
				return err
			}
		}
		id, err := newID()
		if err != nil {
			return err
		}
		order, err := s.nextOrder(cmd.Context(), types.OrderTasks)
		if err != nil {
			return err
		}
		patch.Created = append(patch.Created, types.TaskDoc{
			ID:       id,
			Order:    order,
			Owner:    t.Owner,
			Name:     t.Name,
			Tag:      t.Tag,
			InFocus:  t.InFocus,
			Metadata: types.OneTime{Date: to},
		})
		fork.ForkID = &id
	}

	doc := s.taskDoc(t)
	forks := append(append([]types.Fork{}, master.Forks...), fork)
	doc.Metadata = types.MasterTemplate{Date: master.Date, Forks: forks}
	patch.Edited = append(patch.Edited, doc)
	if err := s.commit(patch); err != nil {
		return fmt.Errorf("task fork: %w", err)
	}

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), patch)
	}
	if fork.ForkID == nil {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "task %s: occurrence on %s deleted\n", t.ID, forkDate)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "task %s: occurrence on %s forked to task %s\n", t.ID, forkDate, *fork.ForkID)
	return err
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task and its subtasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		t, ok := selectors.TaskByID(s.state(), args[0])
		if !ok {
			return fmt.Errorf("task %s: %w", args[0], types.ErrNotFound)
		}
		children := s.taskDoc(t).Children
		patches := []types.Patch{types.TasksPatch{Deleted: []string{t.ID}}}
		if len(children) > 0 {
			patches = append(patches, types.SubTasksPatch{Deleted: children})
		}
		if err := s.commit(patches...); err != nil {
			return fmt.Errorf("task delete: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted task %s (%d subtasks)\n", t.ID, len(children))
		return err
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskDate, "date", "", "task date (YYYY-MM-DD, default today)")
	taskAddCmd.Flags().StringVar(&taskTag, "tag", "", "tag id")
	taskAddCmd.Flags().BoolVar(&taskFocus, "focus", false, "put the task in focus")
	taskAddCmd.Flags().StringVar(&taskGroup, "group", "", "share the task in a group")
	taskAddCmd.Flags().StringVar(&taskRepeat, "repeat", "", "repeat pattern (weekly:days, biweekly:days, monthly:days)")
	taskAddCmd.Flags().StringVar(&taskUntil, "until", "", "last date of a repeating task (inclusive)")
	taskAddCmd.Flags().IntVar(&taskTimes, "times", 0, "number of occurrences of a repeating task")

	taskCompleteCmd.Flags().BoolVar(&taskUndo, "undo", false, "mark the task incomplete")

	taskForkCmd.Flags().StringVar(&forkDate, "date", "", "occurrence date to override (YYYY-MM-DD)")
	taskForkCmd.Flags().StringVar(&forkTo, "to", "", "date of the replacement task (default --date)")
	taskForkCmd.Flags().BoolVar(&forkDelete, "delete", false, "delete the occurrence without replacement")
	_ = taskForkCmd.MarkFlagRequired("date")

	taskCmd.AddCommand(taskAddCmd, taskCompleteCmd, taskForkCmd, taskDeleteCmd)
}

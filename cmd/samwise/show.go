package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/pkg/selectors"
	"github.com/mesh-intelligence/samwise/pkg/store"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print derived views of the reconciled state",
}

// openView opens a session and builds the selectors over its state.
func openView() (*session, *selectors.Selectors, error) {
	s, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	sel, err := selectors.New(selectors.WithCacheSize(s.config.SelectorCacheSize))
	if err != nil {
		s.close()
		return nil, nil, err
	}
	return s, sel, nil
}

// taskRow is a task line of the day and group views.
type taskRow struct {
	ID       string `json:"id"`
	Order    int64  `json:"order"`
	Name     string `json:"name"`
	Tag      string `json:"tag"`
	Complete bool   `json:"complete"`
	Repeats  bool   `json:"repeats"`
	Progress string `json:"subtasks"`
}

func taskRows(st store.State, list []selectors.IDOrder) []taskRow {
	rows := make([]taskRow, 0, len(list))
	for _, e := range list {
		t, ok := selectors.TaskByID(st, e.ID)
		if !ok {
			continue
		}
		rows = append(rows, taskRow{
			ID:       t.ID,
			Order:    t.Order,
			Name:     t.Name,
			Tag:      selectors.TagByID(st, t.Tag).Name,
			Complete: t.Complete,
			Repeats:  types.IsMasterTemplate(t.Metadata),
			Progress: progressOf(t),
		})
	}
	return rows
}

func printTaskRows(cmd *cobra.Command, rows []taskRow) error {
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), rows)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
		return err
	}
	tbl := newTable("DONE", "ID", "NAME", "TAG", "SUBTASKS", "")
	for _, r := range rows {
		repeat := ""
		if r.Repeats {
			repeat = "repeats"
		}
		tbl.AddRow(check(r.Complete), r.ID, r.Name, r.Tag, r.Progress, repeat)
	}
	return printTable(cmd, tbl)
}

func printTable(cmd *cobra.Command, tbl *uitable.Table) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl)
	return err
}

var showDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "List the tasks on a date (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var date string
		if len(args) == 1 {
			date = args[0]
		}
		day, err := parseDateOrToday(date)
		if err != nil {
			return err
		}
		s, sel, err := openView()
		if err != nil {
			return err
		}
		defer s.close()

		st := s.state()
		return printTaskRows(cmd, taskRows(st, sel.IDOrderListByDate(st, types.DateKey(day))))
	},
}

var showGroupCmd = &cobra.Command{
	Use:   "group <id>",
	Short: "List the tasks shared in a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, sel, err := openView()
		if err != nil {
			return err
		}
		defer s.close()

		st := s.state()
		if _, ok := st.Groups.Get(args[0]); !ok {
			return fmt.Errorf("group %s: %w", args[0], types.ErrNotFound)
		}
		return printTaskRows(cmd, taskRows(st, sel.IDOrderListByGroup(st, args[0])))
	},
}

var showFocusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Show the focus view and its progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, sel, err := openView()
		if err != nil {
			return err
		}
		defer s.close()

		st := s.state()
		view := sel.FocusView(st)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), view)
		}

		out := cmd.OutOrStdout()
		if msg := sel.BannerMessage(st); msg != nil {
			fmt.Fprintln(out, msg.Text)
		}
		fmt.Fprintf(out, "Progress: %d/%d\n", view.Progress.CompletedCount, view.Progress.TotalCount)
		tbl := newTable("SECTION", "ID", "NAME", "SUBTASKS")
		rows := 0
		for _, ft := range view.Tasks {
			if !ft.InFocusView {
				continue
			}
			t, _ := selectors.TaskByID(st, ft.ID)
			section := "todo"
			if ft.InCompleteFocusView {
				section = "done"
			}
			tbl.AddRow(section, t.ID, t.Name, progressOf(t))
			rows++
		}
		if rows == 0 {
			_, err := fmt.Fprintln(out, "Nothing in focus.")
			return err
		}
		return printTable(cmd, tbl)
	},
}

var showTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, sel, err := openView()
		if err != nil {
			return err
		}
		defer s.close()

		tags := sel.OrderedTags(s.state())
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), tags)
		}
		tbl := newTable("ORDER", "ID", "NAME", "COLOR")
		for _, t := range tags {
			tbl.AddRow(t.Order, t.ID, t.Name, t.Color)
		}
		return printTable(cmd, tbl)
	},
}

func init() {
	showCmd.AddCommand(showDayCmd, showGroupCmd, showFocusCmd, showTagsCmd)
}

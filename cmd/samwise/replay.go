package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/samwise/internal/patchlog"
	"github.com/mesh-intelligence/samwise/pkg/store"
)

var (
	replayOrder  string
	replayVerify bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay the patch log into a fresh state",
	Long: `Replay folds the patch log into an empty state and prints a summary of
the result. --order reorders the log across streams while keeping each
stream in its logged order:

  logged           the order patches were recorded
  tasks-first      every task patch before any other patch
  subtasks-first   every subtask patch before any other patch

--verify replays every order and fails unless they all reconcile to the
same state.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

// replayResult summarizes one replay of the log.
type replayResult struct {
	Order    patchlog.Strategy `json:"order"`
	Patches  int               `json:"patches"`
	Tasks    int               `json:"tasks"`
	SubTasks int               `json:"subtasks"`
	Missing  int               `json:"missing"`
	Orphans  int               `json:"orphans"`
	Dropped  []string          `json:"dropped"`
	State    *store.Snapshot   `json:"state,omitempty"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	strategy, err := patchlog.ParseStrategy(replayOrder)
	if err != nil {
		return err
	}
	dataDir, err := resolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	entries, err := patchlog.Read(filepath.Join(dataDir, patchlog.FileName))
	if err != nil {
		return err
	}

	strategies := []patchlog.Strategy{strategy}
	if replayVerify {
		strategies = patchlog.Strategies
	}
	results := make([]replayResult, 0, len(strategies))
	var first []byte
	for _, st := range strategies {
		res, err := replayWith(entries, st)
		if err != nil {
			return err
		}
		snap, err := json.Marshal(res.State)
		if err != nil {
			return fmt.Errorf("marshal state: %w", err)
		}
		if first == nil {
			first = snap
		} else if !bytes.Equal(first, snap) {
			return fmt.Errorf("replay orders %s and %s reconcile to different states", strategies[0], st)
		}
		if !flagJSON || replayVerify {
			res.State = nil
		}
		results = append(results, res)
	}
	logger.Info("log replayed", "patches", len(entries), "orders", len(strategies))

	if flagJSON {
		if len(results) == 1 {
			return printJSON(cmd.OutOrStdout(), results[0])
		}
		return printJSON(cmd.OutOrStdout(), results)
	}
	tbl := newTable("ORDER", "PATCHES", "TASKS", "SUBTASKS", "MISSING", "ORPHANS", "DROPPED")
	for _, r := range results {
		tbl.AddRow(r.Order, r.Patches, r.Tasks, r.SubTasks, r.Missing, r.Orphans, len(r.Dropped))
	}
	return printTable(cmd, tbl)
}

func replayWith(entries []patchlog.Entry, strategy patchlog.Strategy) (replayResult, error) {
	ordered, err := patchlog.Interleave(entries, strategy)
	if err != nil {
		return replayResult{}, err
	}
	s := store.New(store.WithLogger(logger))
	reports, err := patchlog.Replay(s, ordered)
	if err != nil {
		return replayResult{}, fmt.Errorf("replay %s: %w", strategy, err)
	}

	st := s.State()
	res := replayResult{
		Order:   strategy,
		Patches: len(ordered),
		Tasks:   st.Tasks.Len(),
		Missing: st.MissingSubTasks.Len(),
		Orphans: st.OrphanSubTasks.Len(),
		Dropped: []string{},
	}
	itr := st.Tasks.Iterator()
	for !itr.Done() {
		_, t, _ := itr.Next()
		res.SubTasks += len(t.Children)
	}
	for _, r := range reports {
		res.Dropped = append(res.Dropped, r.Dropped...)
	}
	snap := st.Export()
	res.State = &snap
	return res, nil
}

func init() {
	replayCmd.Flags().StringVar(&replayOrder, "order", string(patchlog.Logged), "replay order: logged, tasks-first, subtasks-first")
	replayCmd.Flags().BoolVar(&replayVerify, "verify", false, "replay every order and compare the results")
}

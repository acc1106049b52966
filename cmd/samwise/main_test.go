package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/samwise/internal/patchlog"
	"github.com/mesh-intelligence/samwise/internal/paths"
	"github.com/mesh-intelligence/samwise/internal/sqlite"
	"github.com/mesh-intelligence/samwise/pkg/selectors"
	"github.com/mesh-intelligence/samwise/pkg/types"
)

// cli runs the root command in-process against its own directories.
type cli struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{t: t, configDir: t.TempDir(), dataDir: t.TempDir()}
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config-dir", c.configDir, "--data-dir", c.dataDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "samwise %v: %s", args, out)
	return out
}

// runJSON runs the command with --json and decodes the output into v.
func (c *cli) runJSON(v any, args ...string) {
	c.t.Helper()
	out := c.mustRun(append(args, "--json")...)
	require.NoError(c.t, json.Unmarshal([]byte(out), v), out)
}

func (c *cli) addTask(args ...string) types.TaskDoc {
	c.t.Helper()
	var doc types.TaskDoc
	c.runJSON(&doc, append([]string{"task", "add"}, args...)...)
	return doc
}

func (c *cli) day(date string) []taskRow {
	c.t.Helper()
	var rows []taskRow
	c.runJSON(&rows, "show", "day", date)
	return rows
}

func rowIDs(rows []taskRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("version")
	assert.Equal(t, "samwise "+version+"\n", out)
}

func TestInit(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("init")
	assert.Contains(t, out, "samwise initialized")

	for _, path := range []string{
		filepath.Join(c.configDir, paths.ConfigFile),
		filepath.Join(c.dataDir, sqlite.DBFile),
		filepath.Join(c.dataDir, patchlog.FileName),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	data, err := os.ReadFile(filepath.Join(c.configDir, paths.ConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "owner: local")
	assert.Contains(t, string(data), "selector_cache_size: 256")

	// A second init keeps the existing files.
	c.mustRun("init")
}

func TestConfigOwner(t *testing.T) {
	c := newCLI(t)
	cfgPath := filepath.Join(c.configDir, paths.ConfigFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte("owner: sam@example.com\n"), 0o644))

	doc := c.addTask("Read chapter 3", "--date", "2026-10-14")
	assert.Equal(t, "sam@example.com", doc.Owner)
}

func TestInvalidConfig(t *testing.T) {
	c := newCLI(t)
	cfgPath := filepath.Join(c.configDir, paths.ConfigFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend: postgres\n"), 0o644))

	_, err := c.run("show", "tags")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestTags(t *testing.T) {
	c := newCLI(t)
	var first, second types.Tag
	c.runJSON(&first, "tag", "add", "CS 2112", "--color", "blue")
	c.runJSON(&second, "tag", "add", "MATH 2940")
	assert.Less(t, first.Order, second.Order)
	assert.Equal(t, "gray", second.Color)

	var tags []types.Tag
	c.runJSON(&tags, "show", "tags")
	require.Len(t, tags, 3)
	assert.Equal(t, types.NoneTagID, tags[0].ID)
	assert.Equal(t, first.ID, tags[1].ID)
	assert.Equal(t, second.ID, tags[2].ID)

	out := c.mustRun("show", "tags")
	assert.Contains(t, out, "CS 2112")
}

func TestTaskWithSubtasks(t *testing.T) {
	c := newCLI(t)
	var tag types.Tag
	c.runJSON(&tag, "tag", "add", "CS 2112")
	task := c.addTask("Problem set", "--date", "2026-10-16", "--tag", tag.ID)

	var a, b types.SubTask
	c.runJSON(&a, "subtask", "add", task.ID, "Question 1")
	c.runJSON(&b, "subtask", "add", task.ID, "Question 2")
	assert.Less(t, a.Order, b.Order)
	c.mustRun("subtask", "complete", task.ID, a.ID)

	rows := c.day("2026-10-16")
	require.Len(t, rows, 1)
	assert.Equal(t, task.ID, rows[0].ID)
	assert.Equal(t, "CS 2112", rows[0].Tag)
	assert.Equal(t, "1/2", rows[0].Progress)
	assert.Empty(t, c.day("2026-10-17"))

	c.mustRun("task", "complete", task.ID)
	rows = c.day("2026-10-16")
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Complete)
	assert.Equal(t, "1/2", rows[0].Progress, "completing the task keeps its children")

	entries, err := patchlog.Read(filepath.Join(c.dataDir, patchlog.FileName))
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}

func TestUnknownEntities(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("task", "complete", "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = c.run("task", "add", "x", "--tag", "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = c.run("subtask", "add", "nope", "x")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = c.run("show", "group", "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBanner(t *testing.T) {
	c := newCLI(t)
	id := selectors.QuotaExceededIncident.ID

	var rows []bannerRow
	c.runJSON(&rows, "banner", "list")
	require.Len(t, rows, len(selectors.Messages))
	assert.Equal(t, id, rows[0].ID)
	assert.False(t, rows[0].Dismissed)

	assert.Contains(t, c.mustRun("banner", "dismiss", id), "dismissed "+id)
	c.runJSON(&rows, "banner", "list")
	assert.True(t, rows[0].Dismissed, "dismissal is replayed from the log")

	_, err := c.run("banner", "dismiss", "no-such-message")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRepeatingTaskFork(t *testing.T) {
	c := newCLI(t)
	// 2026-10-12 is a Monday.
	master := c.addTask("Lecture", "--date", "2026-10-12", "--repeat", "weekly:mon,wed")

	assert.Equal(t, []string{master.ID}, rowIDs(c.day("2026-10-19")))
	assert.Equal(t, []string{master.ID}, rowIDs(c.day("2026-10-21")))
	assert.Empty(t, c.day("2026-10-20"))
	assert.Empty(t, c.day("2026-10-05"), "before the start date")

	var patch types.TasksPatch
	c.runJSON(&patch, "task", "fork", master.ID, "--date", "2026-10-19", "--to", "2026-10-20")
	require.Len(t, patch.Created, 1)
	fork := patch.Created[0]

	assert.Empty(t, c.day("2026-10-19"), "forked occurrence is hidden")
	assert.Equal(t, []string{fork.ID}, rowIDs(c.day("2026-10-20")))
	assert.Equal(t, []string{master.ID}, rowIDs(c.day("2026-10-26")))

	c.mustRun("task", "fork", master.ID, "--date", "2026-10-26", "--delete")
	assert.Empty(t, c.day("2026-10-26"))

	_, err := c.run("task", "fork", master.ID, "--date", "2026-10-26")
	assert.ErrorIs(t, err, types.ErrInvalidDate, "already forked")
	_, err = c.run("task", "fork", fork.ID, "--date", "2026-10-20")
	assert.ErrorIs(t, err, types.ErrInvalidMetadata, "not repeating")
}

func TestRepeatBounds(t *testing.T) {
	c := newCLI(t)
	until := c.addTask("Office hours", "--date", "2026-10-12", "--repeat", "weekly:mon", "--until", "2026-10-19")
	times := c.addTask("Quiz", "--date", "2026-10-13", "--repeat", "weekly:tue", "--times", "2")

	assert.Equal(t, []string{until.ID}, rowIDs(c.day("2026-10-19")))
	assert.Empty(t, c.day("2026-10-26"))
	assert.Equal(t, []string{times.ID}, rowIDs(c.day("2026-10-20")))
	assert.Empty(t, c.day("2026-10-27"))
}

func TestTaskDelete(t *testing.T) {
	c := newCLI(t)
	task := c.addTask("Essay", "--date", "2026-10-14")
	c.mustRun("subtask", "add", task.ID, "Outline")

	out := c.mustRun("task", "delete", task.ID)
	assert.Contains(t, out, "1 subtasks")
	assert.Empty(t, c.day("2026-10-14"))

	_, err := c.run("task", "delete", task.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	var res replayResult
	c.runJSON(&res, "replay")
	assert.Zero(t, res.Tasks)
	assert.Zero(t, res.Orphans)
	assert.Zero(t, res.Missing)
}

func TestGroupTasks(t *testing.T) {
	c := newCLI(t)
	var g types.Group
	c.runJSON(&g, "group", "add", "Team", "--members", "alice,local,bob")
	assert.Equal(t, []string{"local", "alice", "bob"}, g.Members)

	shared := c.addTask("Slides", "--date", "2026-10-14", "--group", g.ID)
	c.addTask("Solo", "--date", "2026-10-14")

	var rows []taskRow
	c.runJSON(&rows, "show", "group", g.ID)
	assert.Equal(t, []string{shared.ID}, rowIDs(rows))
	assert.Len(t, c.day("2026-10-14"), 2, "group tasks are dated too")

	_, err := c.run("task", "add", "x", "--group", "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = c.run("task", "add", "x", "--group", g.ID, "--repeat", "weekly:mon")
	assert.ErrorIs(t, err, types.ErrInvalidMetadata)
}

func TestFocus(t *testing.T) {
	c := newCLI(t)
	task := c.addTask("Lab report", "--date", "2026-10-14", "--focus")
	var a types.SubTask
	c.runJSON(&a, "subtask", "add", task.ID, "Data")
	c.mustRun("subtask", "add", task.ID, "Analysis")
	c.mustRun("subtask", "complete", task.ID, a.ID)
	c.addTask("Not in focus", "--date", "2026-10-14")

	var view selectors.FocusViewProps
	c.runJSON(&view, "show", "focus")
	assert.Equal(t, selectors.Progress{CompletedCount: 1, TotalCount: 3}, view.Progress)
	require.Len(t, view.Tasks, 3)

	out := c.mustRun("show", "focus")
	assert.Contains(t, out, "Progress: 1/3")
	assert.Contains(t, out, "Lab report")
	assert.NotContains(t, out, "Not in focus")
}

func TestReplayVerify(t *testing.T) {
	c := newCLI(t)
	task := c.addTask("Reading", "--date", "2026-10-14")
	c.mustRun("subtask", "add", task.ID, "Chapter 1")
	c.mustRun("subtask", "add", task.ID, "Chapter 2")

	var results []replayResult
	c.runJSON(&results, "replay", "--verify")
	require.Len(t, results, len(patchlog.Strategies))
	for _, r := range results {
		assert.Equal(t, 1, r.Tasks, r.Order)
		assert.Equal(t, 2, r.SubTasks, r.Order)
		assert.Zero(t, r.Missing, r.Order)
		assert.Zero(t, r.Orphans, r.Order)
		assert.Nil(t, r.State)
	}

	var res replayResult
	c.runJSON(&res, "replay", "--order", "subtasks-first")
	require.NotNil(t, res.State)
	assert.Len(t, res.State.Tasks[task.ID].Children, 2)

	_, err := c.run("replay", "--order", "random")
	assert.ErrorIs(t, err, patchlog.ErrUnknownStrategy)
}

func TestMalformedLog(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dataDir, patchlog.FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o644))

	_, err := c.run("show", "tags")
	require.Error(t, err)
	assert.Contains(t, err.Error(), patchlog.FileName+":1")
}

func TestParseRepeat(t *testing.T) {
	tests := []struct {
		in      string
		want    types.RepeatingPattern
		wantErr bool
	}{
		{in: "weekly:sun", want: types.RepeatingPattern{Type: types.PatternWeekly, BitSet: types.SetDayOfWeek(0, 0)}},
		{in: "weekly:mon,wed", want: types.RepeatingPattern{Type: types.PatternWeekly, BitSet: types.SetDayOfWeek(types.SetDayOfWeek(0, 1), 3)}},
		{in: "WEEKLY:6", want: types.RepeatingPattern{Type: types.PatternWeekly, BitSet: types.SetDayOfWeek(0, 6)}},
		{in: "biweekly:0,13", want: types.RepeatingPattern{Type: types.PatternBiweekly, BitSet: types.SetBit(types.SetBit(0, 0, 14), 13, 14)}},
		{in: "monthly:1,31", want: types.RepeatingPattern{Type: types.PatternMonthly, BitSet: types.SetBit(types.SetBit(0, 0, 31), 30, 31)}},
		{in: "weekly", wantErr: true},
		{in: "weekly:", wantErr: true},
		{in: "daily:1", wantErr: true},
		{in: "weekly:7", wantErr: true},
		{in: "weekly:funday", wantErr: true},
		{in: "biweekly:mon", wantErr: true},
		{in: "monthly:0", wantErr: true},
		{in: "monthly:32", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRepeat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidPattern)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompact(t *testing.T) {
	c := newCLI(t)
	task := c.addTask("Reading", "--date", "2026-10-14")
	c.mustRun("subtask", "add", task.ID, "Chapter 1")
	c.mustRun("task", "complete", task.ID)
	before := c.day("2026-10-14")

	var counts map[string]int
	c.runJSON(&counts, "compact")
	assert.Equal(t, 4, counts["before"])
	assert.Equal(t, 2, counts["after"])

	assert.Equal(t, before, c.day("2026-10-14"))
	var res replayResult
	c.runJSON(&res, "replay")
	assert.Equal(t, 2, res.Patches)
	assert.Equal(t, 1, res.SubTasks)
}

// Package patchlog records patch events as JSONL, one patch per line, and
// replays them into a store. The log is append-only and is the source of
// truth for replay, so a malformed line is an error rather than skipped.
package patchlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/samwise/pkg/types"
)

// FileName is the patch log name inside the data directory.
const FileName = "patches.jsonl"

// maxLineSize bounds a single encoded patch.
const maxLineSize = 16 << 20

// ErrMalformed reports a line that is not a valid patch envelope.
var ErrMalformed = errors.New("malformed patch log line")

// Entry is a patch read from a log, with its position for error reporting.
type Entry struct {
	Path  string
	Line  int
	Patch types.Patch
}

// envelope is the on-disk form of a line.
type envelope struct {
	Kind  types.PatchKind `json:"kind"`
	Patch json.RawMessage `json:"patch"`
}

// Encode returns the JSON line for p, without the trailing newline.
func Encode(p types.Patch) ([]byte, error) {
	if p == nil {
		return nil, types.ErrUnknownPatch
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s patch: %w", p.Kind(), err)
	}
	return json.Marshal(envelope{Kind: p.Kind(), Patch: body})
}

// Decode parses one JSON line into the patch type its kind names.
func Decode(line []byte) (types.Patch, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(env.Patch) == 0 {
		return nil, fmt.Errorf("%w: missing patch body", ErrMalformed)
	}
	switch env.Kind {
	case types.PatchTags:
		return decodeBody[types.TagsPatch](env)
	case types.PatchTasks:
		return decodeBody[types.TasksPatch](env)
	case types.PatchSubTasks:
		return decodeBody[types.SubTasksPatch](env)
	case types.PatchSettings:
		return decodeBody[types.SettingsPatch](env)
	case types.PatchBanner:
		return decodeBody[types.BannerPatch](env)
	case types.PatchCourses:
		return decodeBody[types.CoursesPatch](env)
	case types.PatchGroups:
		return decodeBody[types.GroupsPatch](env)
	case types.PatchGroupInvites:
		return decodeBody[types.GroupInvitesPatch](env)
	}
	return nil, fmt.Errorf("kind %q: %w", env.Kind, types.ErrUnknownPatch)
}

func decodeBody[P types.Patch](env envelope) (types.Patch, error) {
	var p P
	if err := json.Unmarshal(env.Patch, &p); err != nil {
		return nil, fmt.Errorf("%w: %s patch: %v", ErrMalformed, env.Kind, err)
	}
	return p, nil
}

// Append writes the patches to the end of the log at path, creating the
// file and its directory if needed, and syncs before returning.
func Append(path string, patches ...types.Patch) error {
	var buf bytes.Buffer
	for _, p := range patches {
		line, err := Encode(p)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	return f.Close()
}

// Read returns every patch in the log at path, in log order. A log that
// does not exist yet holds no patches. Blank lines are ignored.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		p, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		entries = append(entries, Entry{Path: path, Line: line, Patch: p})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return entries, nil
}

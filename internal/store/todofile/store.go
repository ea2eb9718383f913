// Package todofile implements the single-file lint todo store: an operation
// log of pipe-delimited "add"/"remove" lines replaced atomically on write.
package todofile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/hay-kot/lint-todo-migrate/internal/core/todo"
)

// FilePath returns the storage file named name inside baseDir.
func FilePath(baseDir, name string) string {
	return filepath.Join(baseDir, name)
}

// FileExists reports whether path is an existing regular file. Its presence
// marks a project as already migrated.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Set holds records keyed by identity hash.
type Set map[string]todo.Record

// NewSet builds a set from records. Records sharing an identity collapse to
// the last one given.
func NewSet(records ...todo.Record) Set {
	return Set(lo.KeyBy(records, func(r todo.Record) string {
		return r.IdentityHash()
	}))
}

// Records returns the set's records sorted by identity hash.
func (s Set) Records() []todo.Record {
	keys := s.sortedKeys()
	out := make([]todo.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, s[k])
	}
	return out
}

func (s Set) sortedKeys() []string {
	keys := lo.Keys(map[string]todo.Record(s))
	slices.Sort(keys)
	return keys
}

// Changes is the delta between two sets.
type Changes struct {
	Add    []todo.Record
	Remove []todo.Record
}

// Empty reports whether there is nothing to write.
func (c Changes) Empty() bool {
	return len(c.Add) == 0 && len(c.Remove) == 0
}

// Diff returns the records of desired missing from current (Add) and the
// records of current missing from desired (Remove), each ordered by identity
// hash so output does not depend on read order.
func Diff(current, desired Set) Changes {
	var c Changes

	for _, key := range desired.sortedKeys() {
		if _, ok := current[key]; !ok {
			c.Add = append(c.Add, desired[key])
		}
	}

	for _, key := range current.sortedKeys() {
		if _, ok := desired[key]; !ok {
			c.Remove = append(c.Remove, current[key])
		}
	}

	return c
}

// Read replays the operation log at path. A missing file is an empty set.
// Any malformed line aborts the read with a *todo.ParseError.
func Read(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("open storage file: %w", err)
	}
	defer func() { _ = f.Close() }()

	set := Set{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		op, rec, err := todo.ParseLine(lineNo, line)
		if err != nil {
			return nil, err
		}

		switch op {
		case todo.OpAdd:
			set[rec.IdentityHash()] = rec
		case todo.OpRemove:
			delete(set, rec.IdentityHash())
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	return set, nil
}

// Apply diffs current against desired and appends the resulting "remove" and
// "add" lines to the storage file at path. The file is rewritten through a
// temporary file in the same directory, so readers see either the old or the
// new content. A missing file is always created, even when there is nothing
// to add.
func Apply(path string, current, desired Set) (Changes, error) {
	changes := Diff(current, desired)

	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return changes, fmt.Errorf("read storage file: %w", err)
	}

	if exists && changes.Empty() {
		return changes, nil
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}

	if err := writeLines(&buf, todo.OpRemove, changes.Remove); err != nil {
		return changes, err
	}
	if err := writeLines(&buf, todo.OpAdd, changes.Add); err != nil {
		return changes, err
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return changes, err
	}

	return changes, nil
}

// Compact rewrites the storage file at path to a single "add" line per live
// record. It returns the number of records kept.
func Compact(path string) (int, error) {
	set, err := Read(path)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	records := set.Records()
	if err := writeLines(&buf, todo.OpAdd, records); err != nil {
		return 0, err
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return 0, err
	}

	return len(records), nil
}

func writeLines(buf *bytes.Buffer, op todo.Operation, records []todo.Record) error {
	for _, r := range records {
		line, err := todo.FormatLine(op, r)
		if err != nil {
			return err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place. On failure the temp file is left behind for inspection.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}

	return nil
}

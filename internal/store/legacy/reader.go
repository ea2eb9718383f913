// Package legacy reads the per-file lint todo directory store that predates
// the single-file format. Two layouts exist: version 1 keeps one JSON file per
// todo nested under a per-file directory and records only a line and column;
// version 2 keeps flat per-hash files carrying the full range and a hash of
// the file content.
package legacy

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/lint-todo-migrate/internal/core/todo"
)

const (
	// DefaultName is the storage name shared by the legacy directory and the
	// single file that replaces it.
	DefaultName = ".lint-todo"
	// DefaultPattern selects todo documents inside the legacy directory.
	DefaultPattern = "**/*.json"
)

type position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type span struct {
	Start position `json:"start"`
	End   position `json:"end"`
}

// document is the on-disk JSON shape of both layouts. Version 2 documents
// always carry a range.
type document struct {
	Engine      string `json:"engine"`
	FilePath    string `json:"filePath"`
	RuleID      string `json:"ruleId"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Range       *span  `json:"range"`
	Source      string `json:"source"`
	CreatedDate int64  `json:"createdDate"`
	WarnDate    *int64 `json:"warnDate"`
	ErrorDate   *int64 `json:"errorDate"`
}

func (d document) record() todo.Record {
	r := todo.Record{
		Engine:      d.Engine,
		RuleID:      d.RuleID,
		FilePath:    d.FilePath,
		CreatedDate: d.CreatedDate,
		WarnDate:    d.WarnDate,
		ErrorDate:   d.ErrorDate,
	}

	if d.Range == nil {
		r.FileFormat = todo.FormatV1
		r.Location = todo.Location{
			LineStart:   d.Line,
			ColumnStart: d.Column,
			LineEnd:     d.Line,
			ColumnEnd:   d.Column,
		}
		return r
	}

	r.FileFormat = todo.FormatV2
	r.FileContentHash = d.Source
	r.Location = todo.Location{
		LineStart:   d.Range.Start.Line,
		ColumnStart: d.Range.Start.Column,
		LineEnd:     d.Range.End.Line,
		ColumnEnd:   d.Range.End.Column,
	}
	return r
}

// Reader locates and decodes a legacy directory store.
type Reader struct {
	name    string
	pattern string
}

// NewReader returns a Reader for the store named name inside a project,
// selecting documents with the doublestar pattern. Empty arguments fall back
// to DefaultName and DefaultPattern.
func NewReader(name, pattern string) *Reader {
	if name == "" {
		name = DefaultName
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Reader{name: name, pattern: pattern}
}

// DirPath returns the legacy store directory for baseDir.
func (r *Reader) DirPath(baseDir string) string {
	return filepath.Join(baseDir, r.name)
}

// DirExists reports whether baseDir holds a legacy store directory.
func (r *Reader) DirExists(baseDir string) bool {
	info, err := os.Stat(r.DirPath(baseDir))
	return err == nil && info.IsDir()
}

// Read decodes every todo document under the legacy directory of baseDir.
// Records are returned in path order; each carries the FileFormat it was
// read as. A document that cannot be decoded or would not serialize cleanly
// fails the whole read.
func (r *Reader) Read(baseDir string) ([]todo.Record, error) {
	dir := r.DirPath(baseDir)
	fsys := os.DirFS(dir)

	matches, err := doublestar.Glob(fsys, r.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan legacy store %s: %w", dir, err)
	}
	slices.Sort(matches)

	records := make([]todo.Record, 0, len(matches))
	for _, name := range matches {
		rec, err := readDocument(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("legacy todo %s: %w", filepath.Join(dir, filepath.FromSlash(name)), err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func readDocument(fsys fs.FS, name string) (todo.Record, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return todo.Record{}, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return todo.Record{}, fmt.Errorf("decode: %w", err)
	}

	rec := doc.record()
	if err := rec.Validate(); err != nil {
		return todo.Record{}, err
	}

	return rec, nil
}

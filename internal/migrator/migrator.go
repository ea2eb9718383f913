// Package migrator moves a project's legacy lint todo directory store into the
// single-file store.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/hay-kot/lint-todo-migrate/internal/core/todo"
	"github.com/hay-kot/lint-todo-migrate/internal/store/legacy"
	"github.com/hay-kot/lint-todo-migrate/internal/store/todofile"
	"github.com/hay-kot/lint-todo-migrate/pkg/fsutil"
)

// asideSuffix is appended to the legacy directory while the storage file is
// written at its old path.
const asideSuffix = "__"

// ErrV1Todos is returned when version 1 todos are present and their removal
// was not requested.
var ErrV1Todos = errors.New("todos in version 1 format cannot be migrated")

// V1TodosError carries the number of version 1 todos that blocked a migration.
type V1TodosError struct {
	Count int
}

func (e *V1TodosError) Error() string {
	return fmt.Sprintf("found %d todos in version 1 format", e.Count)
}

func (e *V1TodosError) Unwrap() error {
	return ErrV1Todos
}

// Outcome describes how a migration run ended.
type Outcome string

const (
	OutcomeSkippedFileFound        Outcome = "skipped_file_found"
	OutcomeSkippedNothingToMigrate Outcome = "skipped_nothing_to_migrate"
	OutcomeMigrated                Outcome = "migrated"
)

// Options controls a migration run.
type Options struct {
	// RemoveV1 drops version 1 todos instead of failing on them.
	RemoveV1 bool
}

// Result summarizes a migration run.
type Result struct {
	Outcome     Outcome `json:"outcome"`
	StoragePath string  `json:"storage_path"`
	Migrated    int     `json:"migrated"`   // records written to the storage file
	RemovedV1   int     `json:"removed_v1"` // version 1 records dropped

	// LeftoverPath is set when a skipped run found the aside directory of an
	// interrupted migration. Its todos are not in any store until restored.
	LeftoverPath string `json:"leftover_path,omitempty"`
}

// Service runs migrations for projects using one storage name.
type Service struct {
	reader *legacy.Reader
	name   string
	log    zerolog.Logger
	apply  func(path string, current, desired todofile.Set) (todofile.Changes, error)
}

// NewService creates a Service. The legacy directory and the storage file
// share one storage name; empty name or pattern use the legacy defaults.
func NewService(name, pattern string, log zerolog.Logger) *Service {
	if name == "" {
		name = legacy.DefaultName
	}
	return &Service{
		reader: legacy.NewReader(name, pattern),
		name:   name,
		log:    log,
		apply:  todofile.Apply,
	}
}

// StoragePath returns the storage file path for baseDir.
func (s *Service) StoragePath(baseDir string) string {
	return todofile.FilePath(baseDir, s.name)
}

// Migrate converts the legacy store of baseDir. Checks run in order: an
// existing storage file or a missing legacy directory skip the run, and
// version 1 todos without opts.RemoveV1 fail it with a *V1TodosError before
// anything is touched. A skipped run that finds the aside directory of an
// interrupted migration reports it in Result.LeftoverPath.
//
// Side effects happen in a fixed order: the legacy directory is renamed aside,
// the storage file is written atomically, then the renamed directory is
// deleted. A failure in between leaves the renamed directory in place.
func (s *Service) Migrate(ctx context.Context, baseDir string, opts Options) (Result, error) {
	res := Result{StoragePath: s.StoragePath(baseDir)}

	if todofile.FileExists(res.StoragePath) {
		s.log.Debug().Ctx(ctx).Str("path", res.StoragePath).Msg("storage file found, skipping")
		res.Outcome = OutcomeSkippedFileFound
		return res, nil
	}

	dirPath := s.reader.DirPath(baseDir)
	asidePath := dirPath + asideSuffix

	leftover, err := fsutil.Exists(asidePath)
	if err != nil {
		return res, fmt.Errorf("check %s: %w", asidePath, err)
	}

	if !s.reader.DirExists(baseDir) {
		res.Outcome = OutcomeSkippedNothingToMigrate
		if leftover {
			res.LeftoverPath = asidePath
			s.log.Warn().Ctx(ctx).Str("path", asidePath).Msg("no legacy store, but an interrupted migration left todos aside")
			return res, nil
		}
		s.log.Debug().Ctx(ctx).Msg("no legacy store, skipping")
		return res, nil
	}

	records, err := s.reader.Read(baseDir)
	if err != nil {
		return res, fmt.Errorf("read legacy todos: %w", err)
	}

	isV1 := func(r todo.Record) bool { return r.FileFormat == todo.FormatV1 }
	if v1 := lo.CountBy(records, isV1); v1 > 0 {
		if !opts.RemoveV1 {
			return res, &V1TodosError{Count: v1}
		}
		records = lo.Reject(records, func(r todo.Record, _ int) bool { return isV1(r) })
		res.RemovedV1 = v1
	}

	s.log.Debug().Ctx(ctx).
		Int("todos", len(records)).
		Int("removed_v1", res.RemovedV1).
		Msg("legacy store read")

	if leftover {
		return res, fmt.Errorf("%s exists from an interrupted migration; inspect and remove it before retrying", asidePath)
	}

	if err := os.Rename(dirPath, asidePath); err != nil {
		return res, fmt.Errorf("move legacy store aside: %w", err)
	}
	s.log.Debug().Ctx(ctx).Str("path", asidePath).Msg("legacy store moved aside")

	changes, err := s.apply(res.StoragePath, todofile.Set{}, todofile.NewSet(records...))
	if err != nil {
		return res, fmt.Errorf("write storage file (legacy store kept at %s): %w", asidePath, err)
	}

	if err := fsutil.RemoveAllUnder(asidePath, baseDir); err != nil {
		return res, fmt.Errorf("remove legacy store %s: %w", asidePath, err)
	}

	res.Outcome = OutcomeMigrated
	res.Migrated = len(changes.Add)

	s.log.Info().Ctx(ctx).
		Str("path", res.StoragePath).
		Int("migrated", res.Migrated).
		Int("removed_v1", res.RemovedV1).
		Msg("migrated legacy todos")

	return res, nil
}

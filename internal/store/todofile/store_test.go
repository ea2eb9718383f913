package todofile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/lint-todo-migrate/internal/core/todo"
)

func record(rule string, line int, path string) todo.Record {
	return todo.Record{
		Engine:      "eslint",
		RuleID:      rule,
		Location:    todo.Location{LineStart: line, ColumnStart: 1, LineEnd: line, ColumnEnd: 1},
		CreatedDate: 1626739200000,
		FilePath:    path,
		FileFormat:  todo.FormatV1,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func TestNewSet_CollapsesDuplicates(t *testing.T) {
	a := record("no-undef", 1, "a.js")
	dup := a
	dup.FileFormat = todo.FormatV2
	dup.CreatedDate = 99

	set := NewSet(a, dup, record("no-undef", 2, "a.js"))

	require.Len(t, set, 2)
	assert.Equal(t, int64(99), set[a.IdentityHash()].CreatedDate)
}

func TestSet_RecordsSortedByIdentity(t *testing.T) {
	set := NewSet(
		record("no-undef", 1, "a.js"),
		record("no-undef", 2, "a.js"),
		record("use-isnan", 3, "b.js"),
	)

	records := set.Records()
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].IdentityHash(), records[i].IdentityHash())
	}
}

func TestDiff(t *testing.T) {
	keep := record("no-undef", 1, "a.js")
	gone := record("no-undef", 2, "a.js")
	fresh := record("use-isnan", 3, "b.js")

	changes := Diff(NewSet(keep, gone), NewSet(keep, fresh))

	require.Len(t, changes.Add, 1)
	require.Len(t, changes.Remove, 1)
	assert.Equal(t, fresh.IdentityHash(), changes.Add[0].IdentityHash())
	assert.Equal(t, gone.IdentityHash(), changes.Remove[0].IdentityHash())
}

func TestDiff_EmptyCurrentAddsEverything(t *testing.T) {
	desired := NewSet(record("no-undef", 1, "a.js"), record("no-undef", 2, "a.js"))

	changes := Diff(Set{}, desired)

	assert.Len(t, changes.Add, 2)
	assert.Empty(t, changes.Remove)
}

func TestRead_MissingFile(t *testing.T) {
	set, err := Read(filepath.Join(t.TempDir(), ".lint-todo"))
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestRead_ReplaysOperations(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	content := strings.Join([]string{
		"add|eslint|no-undef|1|1|1|1||1626739200000|||a.js",
		"add|eslint|no-undef|2|1|2|1||1626739200000|||a.js",
		"",
		"remove|eslint|no-undef|1|1|1|1||1626739200000|||a.js",
		"add|eslint|no-undef|2|1|2|1||1626739200000|||a.js",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := Read(path)
	require.NoError(t, err)

	require.Len(t, set, 1)
	assert.Contains(t, set, record("no-undef", 2, "a.js").IdentityHash())
}

func TestRead_CorruptLineIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	content := "add|eslint|no-undef|1|1|1|1||1626739200000|||a.js\nadd|eslint|broken\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := Read(path)

	var parseErr *todo.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, "add|eslint|broken", parseErr.Raw)
	assert.Nil(t, set)
}

func TestApply_FreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	desired := NewSet(
		record("no-undef", 1, "a.js"),
		record("no-undef", 2, "a.js"),
		record("use-isnan", 3, "b.js"),
	)

	changes, err := Apply(path, Set{}, desired)
	require.NoError(t, err)
	assert.Len(t, changes.Add, 3)

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	for i, r := range desired.Records() {
		want, err := todo.FormatLine(todo.OpAdd, r)
		require.NoError(t, err)
		assert.Equal(t, want, lines[i])
	}
}

func TestApply_EmptyDesiredStillCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")

	changes, err := Apply(path, Set{}, Set{})
	require.NoError(t, err)
	assert.True(t, changes.Empty())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Zero(t, info.Size())
}

func TestApply_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	desired := NewSet(record("no-undef", 1, "a.js"), record("use-isnan", 3, "b.js"))

	_, err := Apply(path, Set{}, desired)
	require.NoError(t, err)

	written, err := Read(path)
	require.NoError(t, err)
	assert.True(t, Diff(written, written).Empty())
	assert.True(t, Diff(written, desired).Empty())

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	changes, err := Apply(path, written, desired)
	require.NoError(t, err)
	assert.True(t, changes.Empty())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApply_IncrementalUpdateAppendsRemoveAndAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	keep := record("no-undef", 1, "a.js")
	gone := record("no-undef", 2, "a.js")
	fresh := record("use-isnan", 3, "b.js")

	_, err := Apply(path, Set{}, NewSet(keep, gone))
	require.NoError(t, err)

	current, err := Read(path)
	require.NoError(t, err)

	_, err = Apply(path, current, NewSet(keep, fresh))
	require.NoError(t, err)

	lines := readLines(t, path)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "remove|"))
	assert.True(t, strings.HasPrefix(lines[3], "add|"))

	final, err := Read(path)
	require.NoError(t, err)
	assert.True(t, Diff(final, NewSet(keep, fresh)).Empty())
}

func TestApply_InvalidRecordLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	_, err := Apply(path, Set{}, NewSet(record("no-undef", 1, "a.js")))
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	current, err := Read(path)
	require.NoError(t, err)

	bad := record("no-undef", 5, "a|b.js")
	_, err = Apply(path, current, NewSet(record("no-undef", 1, "a.js"), bad))
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApply_TargetIsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "nested"), 0o755))

	_, err := Apply(path, Set{}, NewSet(record("no-undef", 1, "a.js")))
	require.Error(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCompact(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lint-todo")
	content := strings.Join([]string{
		"add|eslint|no-undef|1|1|1|1||1626739200000|||a.js",
		"add|eslint|no-undef|2|1|2|1||1626739200000|||a.js",
		"remove|eslint|no-undef|1|1|1|1||1626739200000|||a.js",
		"add|eslint|use-isnan|3|1|3|1||1626739200000|||b.js",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	kept, err := Compact(path)
	require.NoError(t, err)
	assert.Equal(t, 2, kept)

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "add|"))
	}

	set, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, set, 2)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := FilePath(dir, ".lint-todo")

	assert.False(t, FileExists(path))

	require.NoError(t, os.Mkdir(path, 0o755))
	assert.False(t, FileExists(path), "a legacy directory is not a storage file")

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, FileExists(path))
}

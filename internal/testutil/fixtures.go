// Package testutil provides shared fixtures for store and command tests.
package testutil

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed all:fixtures
var fixtures embed.FS

// Fixture names. Counts match the number of legacy todo files in each.
const (
	FixtureV1    = "v1"    // 5 eslint todos, version 1 layout
	FixtureV2    = "v2"    // 11 ember-template-lint todos, version 2 layout
	FixtureMixed = "mixed" // both of the above in one store
)

const (
	FixtureV1Count = 5
	FixtureV2Count = 11
)

// CopyFixture copies the named legacy store into dir, producing dir/.lint-todo.
func CopyFixture(t *testing.T, name, dir string) {
	t.Helper()

	sub, err := fs.Sub(fixtures, path.Join("fixtures", name))
	require.NoError(t, err, "fixture %s", name)
	require.NoError(t, os.CopyFS(dir, sub), "copy fixture %s", name)
}

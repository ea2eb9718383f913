// Package fsutil holds filesystem helpers for moving and removing store
// directories inside a project.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NotUnderRootError is returned when a path escapes the directory it must stay in.
type NotUnderRootError struct {
	Target string
	Root   string
}

func (e *NotUnderRootError) Error() string {
	return fmt.Sprintf("%q is not inside %q", e.Target, e.Root)
}

// RemoveAllUnder recursively removes target only if it resolves to a path
// strictly inside root. Symlinks are resolved on both sides, so a link out of
// the project cannot redirect the removal. A missing target is not an error.
func RemoveAllUnder(target, root string) error {
	resolvedTarget, err := filepath.EvalSymlinks(filepath.Clean(target))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &NotUnderRootError{Target: target, Root: root}
	}

	resolvedRoot, err := filepath.EvalSymlinks(filepath.Clean(root))
	if err != nil {
		return &NotUnderRootError{Target: target, Root: root}
	}

	if !IsSubpath(resolvedTarget, resolvedRoot) {
		return &NotUnderRootError{Target: target, Root: root}
	}

	return os.RemoveAll(resolvedTarget)
}

// IsSubpath reports whether target is strictly inside root. Both paths must
// already be cleaned.
func IsSubpath(target, root string) bool {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix) && len(target) > len(prefix)
}

// Exists reports whether path exists, distinguishing "missing" from other
// stat failures.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Package validate provides shared validation functions for use with
// criterio.Run.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Required rejects an empty string.
func Required(s string) error {
	if s == "" {
		return errors.New("is required")
	}
	return nil
}

// Excludes returns a validator rejecting strings that contain any of chars.
func Excludes(chars string) func(string) error {
	return func(s string) error {
		if strings.ContainsAny(s, chars) {
			return fmt.Errorf("must not contain any of %q", chars)
		}
		return nil
	}
}

// NonNegative rejects values below zero.
func NonNegative(v int64) error {
	if v < 0 {
		return fmt.Errorf("must be non-negative, got %d", v)
	}
	return nil
}

// OptionalNonNegative accepts nil and otherwise applies NonNegative.
func OptionalNonNegative(v *int64) error {
	if v == nil {
		return nil
	}
	return NonNegative(*v)
}

// BareName accepts a single path element.
func BareName(name string) error {
	switch {
	case name == "":
		return errors.New("is required")
	case name == "." || name == "..":
		return fmt.Errorf("%q is not a file name", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%q must not contain path separators", name)
	}
	return nil
}

// GlobPattern accepts a valid doublestar pattern.
func GlobPattern(pattern string) error {
	if pattern == "" {
		return errors.New("is required")
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%q is not a valid glob pattern", pattern)
	}
	return nil
}

// Describe flattens criterio field errors into "field reason, field reason".
// Other errors are returned as their message.
func Describe(err error) string {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field+" "+fe.Err.Error())
	}
	return strings.Join(parts, ", ")
}

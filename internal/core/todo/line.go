package todo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/lint-todo-migrate/internal/core/validate"
)

// Delimiter separates fields in a storage line.
const Delimiter = "|"

const (
	recordFieldCount = 11
	lineFieldCount   = recordFieldCount + 1
)

// ParseError reports a malformed storage line.
type ParseError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse storage line %d: %s: %q", e.Line, e.Reason, e.Raw)
}

// Fields returns the record's serialized fields in storage order:
//
//	engine|ruleId|lineStart|colStart|lineEnd|colEnd|fileContentHash|createdDate|warnDate|errorDate|filePath
func (r Record) Fields() []string {
	return []string{
		r.Engine,
		r.RuleID,
		strconv.Itoa(r.Location.LineStart),
		strconv.Itoa(r.Location.ColumnStart),
		strconv.Itoa(r.Location.LineEnd),
		strconv.Itoa(r.Location.ColumnEnd),
		r.FileContentHash,
		strconv.FormatInt(r.CreatedDate, 10),
		formatOptional(r.WarnDate),
		formatOptional(r.ErrorDate),
		r.FilePath,
	}
}

// FormatLine renders an operation line for r without a trailing newline.
// Records that would produce an ambiguous line are rejected.
func FormatLine(op Operation, r Record) (string, error) {
	if !op.IsValid() {
		return "", fmt.Errorf("invalid operation %q", op)
	}

	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("invalid todo %s in %s: %s", r.RuleID, r.FilePath, validate.Describe(err))
	}

	return string(op) + Delimiter + strings.Join(r.Fields(), Delimiter), nil
}

// ParseLine parses a single storage line. lineNo is 1-based and only used for
// error reporting. Records returned have FileFormat set to FormatUnknown.
func ParseLine(lineNo int, line string) (Operation, Record, error) {
	fail := func(format string, args ...any) (Operation, Record, error) {
		return "", Record{}, &ParseError{Line: lineNo, Raw: line, Reason: fmt.Sprintf(format, args...)}
	}

	parts := strings.Split(line, Delimiter)
	if len(parts) != lineFieldCount {
		return fail("expected %d fields, got %d", lineFieldCount, len(parts))
	}

	op := Operation(parts[0])
	if !op.IsValid() {
		return fail("unknown operation %q", parts[0])
	}

	f := parts[1:]
	rec := Record{
		Engine:          f[0],
		RuleID:          f[1],
		FileContentHash: f[6],
		FilePath:        f[10],
	}

	ints := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"lineStart", f[2], &rec.Location.LineStart},
		{"columnStart", f[3], &rec.Location.ColumnStart},
		{"lineEnd", f[4], &rec.Location.LineEnd},
		{"columnEnd", f[5], &rec.Location.ColumnEnd},
	}
	for _, field := range ints {
		n, err := parseNumber(field.raw, strconv.IntSize)
		if err != nil {
			return fail("%s is not a number", field.name)
		}
		*field.dst = int(n)
	}

	created, err := parseNumber(f[7], 64)
	if err != nil {
		return fail("createdDate is not a number")
	}
	rec.CreatedDate = created

	if rec.WarnDate, err = parseOptional(f[8]); err != nil {
		return fail("warnDate is not a number")
	}
	if rec.ErrorDate, err = parseOptional(f[9]); err != nil {
		return fail("errorDate is not a number")
	}

	if err := rec.Validate(); err != nil {
		return fail("%s", validate.Describe(err))
	}

	return op, rec, nil
}

func formatOptional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func parseOptional(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := parseNumber(s, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseNumber accepts only the decimal form Fields writes, so "07", "+7" and
// "-0" are rejected.
func parseNumber(s string, bitSize int) (int64, error) {
	n, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		return 0, err
	}
	if strconv.FormatInt(n, 10) != s {
		return 0, fmt.Errorf("non-canonical number %q", s)
	}
	return n, nil
}

// Package todo defines the lint todo record model shared by the legacy
// directory store and the single-file store.
package todo

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/lint-todo-migrate/internal/core/validate"
)

// FileFormat records which legacy layout a record was read from.
type FileFormat int

const (
	// FormatUnknown is used for records read back from the single-file store,
	// which does not encode provenance.
	FormatUnknown FileFormat = 0
	// FormatV1 is the nested per-rule directory layout (line/column only).
	FormatV1 FileFormat = 1
	// FormatV2 is the flat per-hash layout (full range plus content hash).
	FormatV2 FileFormat = 2
)

func (f FileFormat) String() string {
	switch f {
	case FormatV1:
		return "v1"
	case FormatV2:
		return "v2"
	default:
		return "unknown"
	}
}

// Operation is the leading field of a storage line.
type Operation string

const (
	OpAdd    Operation = "add"
	OpRemove Operation = "remove"
)

// IsValid reports whether op is a known operation.
func (op Operation) IsValid() bool {
	return op == OpAdd || op == OpRemove
}

// Location is the source range of a violation. Values are preserved as-is;
// column semantics differ between legacy formats.
type Location struct {
	LineStart   int `json:"line_start"`
	ColumnStart int `json:"column_start"`
	LineEnd     int `json:"line_end"`
	ColumnEnd   int `json:"column_end"`
}

// Record is one outstanding lint violation pending remediation.
type Record struct {
	Engine          string   `json:"engine"`
	RuleID          string   `json:"rule_id"`
	Location        Location `json:"location"`
	FileContentHash string   `json:"file_content_hash,omitempty"`
	CreatedDate     int64    `json:"created_date"`
	WarnDate        *int64   `json:"warn_date,omitempty"`
	ErrorDate       *int64   `json:"error_date,omitempty"`
	FilePath        string   `json:"file_path"`

	// FileFormat is set at read time and never written to the storage file.
	FileFormat FileFormat `json:"-"`
}

// IdentityHash returns the stable key of the record. Two records with the same
// engine, rule, file path, location and content hash share an identity no
// matter which layout produced them.
func (r Record) IdentityHash() string {
	key := strings.Join([]string{
		r.Engine,
		r.RuleID,
		r.FilePath,
		strconv.Itoa(r.Location.LineStart),
		strconv.Itoa(r.Location.ColumnStart),
		strconv.Itoa(r.Location.LineEnd),
		strconv.Itoa(r.Location.ColumnEnd),
		r.FileContentHash,
	}, Delimiter)

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Validate checks that the record can be written to the storage file without
// making the line ambiguous.
func (r Record) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("engine", r.Engine, requiredField),
		criterio.Run("rule_id", r.RuleID, requiredField),
		criterio.Run("file_path", r.FilePath, requiredField),
		criterio.Run("file_content_hash", r.FileContentHash, plainField),
		criterio.Run("created_date", r.CreatedDate, validate.NonNegative),
		criterio.Run("warn_date", r.WarnDate, validate.OptionalNonNegative),
		criterio.Run("error_date", r.ErrorDate, validate.OptionalNonNegative),
	)
}

// Millis returns a pointer to v, for populating optional timestamps.
func Millis(v int64) *int64 {
	return &v
}

func requiredField(s string) error {
	if err := validate.Required(s); err != nil {
		return err
	}
	return plainField(s)
}

var plainField = validate.Excludes(Delimiter + "\r\n")

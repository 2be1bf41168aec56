package processor

import (
	"errors"
	"fmt"
)

// ErrInconsistentCounts marks a row that reports more elderly surrenders than
// its total.
var ErrInconsistentCounts = errors.New("elderly count exceeds total count")

// DataLoadError means the input could not be turned into records: the file is
// missing or unreadable, no configured encoding decodes it, or a count cell is
// malformed. It is fatal; callers must not fall back to stale data.
type DataLoadError struct {
	Path      string
	Encodings []string
	Err       error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("data load %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SchemaMismatchError means a column the caller depends on is absent.
type SchemaMismatchError struct {
	Path   string
	Column string
	Year   int // 0 for the region column
}

func (e *SchemaMismatchError) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("schema mismatch in %s: column %q not found", e.Path, e.Column)
	}
	return fmt.Sprintf("schema mismatch in %s: column %q for %d not found", e.Path, e.Column, e.Year)
}

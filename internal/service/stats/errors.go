package stats

import "fmt"

// FailureKind classifies why statistics could not be produced.
type FailureKind int

const (
	// KindMissingField: a required value (identity, record id, timestamp) is absent.
	KindMissingField FailureKind = iota + 1
	// KindParse: a formatted value does not parse back to its source.
	KindParse
	// KindStore: the record store failed.
	KindStore
)

func (k FailureKind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindParse:
		return "parse"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// AssembleError reports a failed statistics build. Callers treat it as
// "no result" and may branch on Kind.
type AssembleError struct {
	Kind   FailureKind
	Record string // offending record id, empty when not record-specific
	Err    error
}

func (e *AssembleError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("assemble statistics: %s: record %s: %v", e.Kind, e.Record, e.Err)
	}
	return fmt.Sprintf("assemble statistics: %s: %v", e.Kind, e.Err)
}

func (e *AssembleError) Unwrap() error { return e.Err }

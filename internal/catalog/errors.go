package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the catalog file could not be opened or read.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrMissingColumns means the header lacks one of the required columns.
	ErrMissingColumns = errors.New("catalog missing required columns")

	// ErrMalformedSource means the file could not be parsed as a delimited table.
	ErrMalformedSource = errors.New("catalog source malformed")
)

// LoadError describes why a load produced an empty catalog.
type LoadError struct {
	Path   string
	Kind   error
	Detail string
	Err    error
}

func (e *LoadError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying I/O or parse error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel kind, so errors.Is(err, ErrMissingColumns) works.
func (e *LoadError) Is(target error) bool {
	return target == e.Kind
}

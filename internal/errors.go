package internal

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrFetch         = errors.New("fetch failed")
	ErrRenderTimeout = errors.New("render timeout")
	ErrMalformedRow  = errors.New("malformed row")
)

// FetchError is a non-success status (or transport failure) for one URL.
type FetchError struct {
	URL    string
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("fetch %s", e.URL)
}

func (e *FetchError) Unwrap() error { return e.Cause }
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// RenderTimeoutError means the page did not settle within the fetch bound.
type RenderTimeoutError struct {
	URL   string
	Cause error
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("fetch %s: timed out", e.URL)
}

func (e *RenderTimeoutError) Unwrap() error { return e.Cause }
func (e *RenderTimeoutError) Is(target error) bool { return target == ErrRenderTimeout }

// MalformedRowError is a row present in an attribute table that lacks one of
// the group's cells.
type MalformedRowError struct {
	Table string
	Row   string
	Key   string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("table %s: row %q has no %q cell", e.Table, e.Row, e.Key)
}

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// FailureReason classifies a unit error for summaries and metrics.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrRenderTimeout):
		return "render_timeout"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrMalformedRow):
		return "malformed_row"
	default:
		return "other"
	}
}

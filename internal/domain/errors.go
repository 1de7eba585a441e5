package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned by the loader when the declared
	// media type is not PDF-compatible or the document cannot be opened.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument is returned by the loader for documents with
	// zero pages.
	ErrEmptyDocument = errors.New("document has no pages")

	// ErrExtractionUnavailable marks a transient extraction-service
	// outage; the caller may retry the whole document.
	ErrExtractionUnavailable = errors.New("extraction service unavailable")

	// ErrMalformedExtraction marks extraction output that does not
	// parse against the expected schema. Not retryable for this
	// invocation; callers degrade to an empty event list.
	ErrMalformedExtraction = errors.New("malformed extraction output")
)

// CalendarErrorKind separates retry-eligible calendar failures from
// permanent ones.
type CalendarErrorKind string

const (
	CalendarErrTransient CalendarErrorKind = "transient"
	CalendarErrPermanent CalendarErrorKind = "permanent"
)

// CalendarError wraps a failed calendar operation with its kind.
type CalendarError struct {
	Op     string
	Kind   CalendarErrorKind
	Status int
	Err    error
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar %s (%s, status %d): %v", e.Op, e.Kind, e.Status, e.Err)
}

func (e *CalendarError) Unwrap() error { return e.Err }

// IsTransientCalendarError reports whether err is a calendar failure
// eligible for retry.
func IsTransientCalendarError(err error) bool {
	var ce *CalendarError
	return errors.As(err, &ce) && ce.Kind == CalendarErrTransient
}

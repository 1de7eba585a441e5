package extractor

import "context"

// RawEvent is one loosely-typed record as returned by the structured
// extraction capability. It is untrusted input: every field is
// validated before a CandidateEvent is built from it.
type RawEvent struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	DueDate     string   `json:"due_date"`
	DueTime     string   `json:"due_time,omitempty"`
	Description *string  `json:"description,omitempty"`
	Points      *float64 `json:"points,omitempty"`
	SourcePage  int      `json:"source_page,omitempty"`
}

// Client is the structured-extraction capability: given document text
// with page-boundary markers, return detected events. Implementations
// fail with domain.ErrExtractionUnavailable on transient outages and
// domain.ErrMalformedExtraction when the output does not parse.
type Client interface {
	ExtractEvents(ctx context.Context, text string) ([]RawEvent, error)
}

package domain

import "time"

// ExtractionMethod tags how a page's text was obtained.
type ExtractionMethod string

const (
	MethodNative ExtractionMethod = "native"
	MethodOCR    ExtractionMethod = "ocr"
)

// Document is an uploaded syllabus: raw bytes plus the declared media
// type. Immutable once loaded; discarded after text is produced.
type Document struct {
	CourseID  string
	Name      string
	MediaType string
	Data      []byte
}

// PageText is the extracted text of a single page.
type PageText struct {
	Page       int // 1-based
	Text       string
	Method     ExtractionMethod
	Confidence float64 // [0,1]
}

// EventType classifies a detected academic item.
type EventType string

const (
	EventAssignment EventType = "assignment"
	EventExam       EventType = "exam"
	EventQuiz       EventType = "quiz"
	EventProject    EventType = "project"
	EventLecture    EventType = "lecture"
	EventOther      EventType = "other"
)

// ParseEventType maps a raw type value to a recognized EventType,
// defaulting to EventOther rather than rejecting the event.
func ParseEventType(s string) EventType {
	switch EventType(s) {
	case EventAssignment, EventExam, EventQuiz, EventProject, EventLecture, EventOther:
		return EventType(s)
	}
	return EventOther
}

// TimeOfDay is an optional due time attached to a candidate event.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// CandidateEvent is one detected academic item as returned by
// extraction, validated but not yet normalized. Never mutated after
// creation; normalization produces new values.
type CandidateEvent struct {
	Title       string
	Type        EventType
	DueDate     time.Time // date component only, midnight UTC
	DueTime     *TimeOfDay
	Description *string
	Points      *float64
	SourcePage  int
	Confidence  float64
}

// Priority of a normalized event, derived from type and temporal
// proximity.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NormalizedEvent is a CandidateEvent after normalization: the due
// date/time resolved to an absolute timestamp in a single time zone,
// a stable content fingerprint, and a derived priority.
type NormalizedEvent struct {
	Title       string
	Type        EventType
	Due         time.Time
	AllDay      bool
	Description *string
	Points      *float64
	SourcePage  int
	Confidence  float64
	Fingerprint string
	Priority    Priority
	// PastDate marks events dated before processing time; kept but
	// flagged low-confidence since some courses reference past dates.
	PastDate bool
}

// SyncedEventRecord maps (courseID, fingerprint) to an external
// calendar event. The only durable state the pipeline owns.
type SyncedEventRecord struct {
	ID              int64     `db:"id"`
	CourseID        string    `db:"course_id"`
	Fingerprint     string    `db:"fingerprint"`
	ExternalEventID string    `db:"external_event_id"`
	// ContentHash is the hash of the last-pushed calendar payload,
	// used to detect both syllabus changes and manual user edits.
	ContentHash  string    `db:"content_hash"`
	UserEdited   bool      `db:"user_edited"`
	LastSyncedAt time.Time `db:"last_synced_at"`
}

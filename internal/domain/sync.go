package domain

import "time"

// Reasons attached to planned operations by the reconciler.
const (
	ReasonNew        = "not previously synced"
	ReasonChanged    = "syllabus content changed"
	ReasonUserEdited = "protected by user edit"
	ReasonUnlisted   = "no longer listed in syllabus"
)

// PlannedOp is a single reconciled operation. Record is nil for
// creates; Event is zero for deletes.
type PlannedOp struct {
	Event  NormalizedEvent
	Record *SyncedEventRecord
	Reason string
}

// SyncPlan is the ephemeral output of reconciliation. Creates are
// applied before updates; within each group operations are ordered by
// due date ascending. Stale records are reported, never auto-deleted;
// Deletes is populated only when the caller opts in.
type SyncPlan struct {
	Creates []PlannedOp
	Updates []PlannedOp
	Deletes []PlannedOp
	Skips   []PlannedOp
	Stale   []SyncedEventRecord
}

// Empty reports whether the plan contains no calendar operations.
func (p SyncPlan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// FailedOp records one calendar operation that reached a terminal
// failure state.
type FailedOp struct {
	Fingerprint string
	Title       string
	Op          string
	Kind        CalendarErrorKind
	Error       string
}

// SyncResult reports the outcome of one sync invocation. Partial
// failures are per-item: a failed operation never rolls back or
// blocks the others.
type SyncResult struct {
	InvocationID string
	CourseID     string
	Created      int
	Updated      int
	Deleted      int
	Skipped      int
	Stale        int
	Failed       []FailedOp
	Notes        []string
	Canceled     bool
	Duration     time.Duration
}

// ProcessStats counts what happened to a document on its way through
// the pipeline.
type ProcessStats struct {
	Pages        int
	NativePages  int
	OCRPages     int
	Extracted    int
	Deduplicated int
}

// ProcessResult is the outcome of processing one syllabus document.
// Per-page and per-event failures are absorbed into Warnings.
type ProcessResult struct {
	Events   []NormalizedEvent
	Warnings []string
	Stats    ProcessStats
}

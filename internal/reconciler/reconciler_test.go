package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecal/internal/calendar"
	"coursecal/internal/domain"
)

func event(title string, typ domain.EventType, due time.Time, fp string) domain.NormalizedEvent {
	return domain.NormalizedEvent{
		Title:       title,
		Type:        typ,
		Due:         due,
		AllDay:      true,
		Fingerprint: fp,
		Priority:    domain.PriorityMedium,
	}
}

func syncedRecord(ev domain.NormalizedEvent) domain.SyncedEventRecord {
	return domain.SyncedEventRecord{
		CourseID:        "cs101",
		Fingerprint:     ev.Fingerprint,
		ExternalEventID: "ext-" + ev.Fingerprint,
		ContentHash:     calendar.PayloadFor(ev).Hash(),
		LastSyncedAt:    time.Now(),
	}
}

var (
	oct15 = time.Date(2025, 10, 15, 23, 59, 0, 0, time.UTC)
	oct30 = time.Date(2025, 10, 30, 23, 59, 0, 0, time.UTC)
)

func TestReconcile_EmptyStoreYieldsOrderedCreates(t *testing.T) {
	events := []domain.NormalizedEvent{
		event("Exam 1", domain.EventExam, oct30, "fp-exam"),
		event("Assignment 1", domain.EventAssignment, oct15, "fp-hw"),
	}

	plan := Reconcile(events, nil, Options{})

	require.Len(t, plan.Creates, 2)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Stale)

	// Ordered by due date ascending: Oct 15 before Oct 30.
	assert.Equal(t, "Assignment 1", plan.Creates[0].Event.Title)
	assert.Equal(t, "Exam 1", plan.Creates[1].Event.Title)
	assert.Equal(t, domain.ReasonNew, plan.Creates[0].Reason)
}

func TestReconcile_UnchangedEventIsNoOp(t *testing.T) {
	ev := event("Assignment 1", domain.EventAssignment, oct15, "fp-hw")
	records := []domain.SyncedEventRecord{syncedRecord(ev)}

	plan := Reconcile([]domain.NormalizedEvent{ev}, records, Options{})

	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Skips)
	assert.Empty(t, plan.Stale)
}

func TestReconcile_SecondRunIsIdempotent(t *testing.T) {
	events := []domain.NormalizedEvent{
		event("Assignment 1", domain.EventAssignment, oct15, "fp-hw"),
		event("Exam 1", domain.EventExam, oct30, "fp-exam"),
	}
	// Records as the executor would leave them after the first run.
	var records []domain.SyncedEventRecord
	for _, ev := range events {
		records = append(records, syncedRecord(ev))
	}

	plan := Reconcile(events, records, Options{})

	assert.Empty(t, plan.Creates)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Deletes)
}

func TestReconcile_ChangedFieldYieldsUpdate(t *testing.T) {
	ev := event("Assignment 1", domain.EventAssignment, oct15, "fp-hw")
	rec := syncedRecord(ev)

	changed := ev
	changed.Due = ev.Due.Add(24 * time.Hour)

	plan := Reconcile([]domain.NormalizedEvent{changed}, []domain.SyncedEventRecord{rec}, Options{})

	assert.Empty(t, plan.Creates)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, domain.ReasonChanged, plan.Updates[0].Reason)
	assert.Equal(t, rec.ExternalEventID, plan.Updates[0].Record.ExternalEventID)
}

func TestReconcile_UserEditedNeverUpdated(t *testing.T) {
	ev := event("Assignment 1", domain.EventAssignment, oct15, "fp-hw")
	rec := syncedRecord(ev)
	rec.UserEdited = true

	// The syllabus-derived value differs, but the record is protected.
	changed := ev
	changed.Title = "Assignment 1 (revised)"

	plan := Reconcile([]domain.NormalizedEvent{changed}, []domain.SyncedEventRecord{rec}, Options{})

	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Skips, 1)
	assert.Equal(t, domain.ReasonUserEdited, plan.Skips[0].Reason)
}

func TestReconcile_StaleReportedNotDeletedByDefault(t *testing.T) {
	gone := event("Dropped quiz", domain.EventQuiz, oct15, "fp-gone")
	records := []domain.SyncedEventRecord{syncedRecord(gone)}

	plan := Reconcile(nil, records, Options{})

	require.Len(t, plan.Stale, 1)
	assert.Empty(t, plan.Deletes)
}

func TestReconcile_DeletesOnlyWhenOptedIn(t *testing.T) {
	gone := event("Dropped quiz", domain.EventQuiz, oct15, "fp-gone")
	records := []domain.SyncedEventRecord{syncedRecord(gone)}

	plan := Reconcile(nil, records, Options{IncludeDeletes: true})

	require.Len(t, plan.Stale, 1)
	require.Len(t, plan.Deletes, 1)
	assert.Equal(t, domain.ReasonUnlisted, plan.Deletes[0].Reason)
}

func TestReconcile_UserEditedStaleNeverDeleted(t *testing.T) {
	gone := event("Dropped quiz", domain.EventQuiz, oct15, "fp-gone")
	rec := syncedRecord(gone)
	rec.UserEdited = true

	plan := Reconcile(nil, []domain.SyncedEventRecord{rec}, Options{IncludeDeletes: true})

	require.Len(t, plan.Stale, 1)
	assert.Empty(t, plan.Deletes)
}

func TestReconcile_CreatesBeforeUpdatesMixedPlan(t *testing.T) {
	existing := event("Exam 1", domain.EventExam, oct30, "fp-exam")
	rec := syncedRecord(existing)
	moved := existing
	moved.Due = oct30.Add(24 * time.Hour)

	fresh := event("Assignment 2", domain.EventAssignment, oct15, "fp-hw2")

	plan := Reconcile([]domain.NormalizedEvent{moved, fresh}, []domain.SyncedEventRecord{rec}, Options{})

	require.Len(t, plan.Creates, 1)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "Assignment 2", plan.Creates[0].Event.Title)
	assert.Equal(t, "Exam 1", plan.Updates[0].Event.Title)
}

package executor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecal/internal/calendar"
	"coursecal/internal/domain"
)

type fakeCalendar struct {
	mu       sync.Mutex
	created  []calendar.EventPayload
	updated  map[string]calendar.EventPayload
	deleted  []string
	nextID   int
	failOn   map[string]error // title -> error for create/update
	attempts map[string]int
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{
		updated:  make(map[string]calendar.EventPayload),
		failOn:   make(map[string]error),
		attempts: make(map[string]int),
	}
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, calendarID string, p calendar.EventPayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[p.Title]++
	if err := f.failOn[p.Title]; err != nil {
		return "", err
	}
	f.nextID++
	f.created = append(f.created, p)
	return "ext-" + p.Title, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, calendarID, eventID string, p calendar.EventPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[p.Title]++
	if err := f.failOn[p.Title]; err != nil {
		return err
	}
	f.updated[eventID] = p
	return nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendar) GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	return nil, &domain.CalendarError{Op: "get", Kind: domain.CalendarErrPermanent, Status: 404, Err: errors.New("not found")}
}

func (f *fakeCalendar) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]calendar.Event, error) {
	return nil, nil
}

type fakeRecords struct {
	mu       sync.Mutex
	upserted []domain.SyncedEventRecord
	deleted  []string
	err      error
}

func (f *fakeRecords) Upsert(ctx context.Context, rec *domain.SyncedEventRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, *rec)
	return nil
}

func (f *fakeRecords) Delete(ctx context.Context, courseID, fingerprint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, fingerprint)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testExecutor(cal calendar.Client, records RecordStore) *Executor {
	return New(cal, records, Config{
		Workers:        2,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, testLogger())
}

func createOp(title string, due time.Time) domain.PlannedOp {
	return domain.PlannedOp{
		Event: domain.NormalizedEvent{
			Title:       title,
			Type:        domain.EventAssignment,
			Due:         due,
			AllDay:      true,
			Fingerprint: "fp-" + title,
			Priority:    domain.PriorityMedium,
		},
		Reason: domain.ReasonNew,
	}
}

var due = time.Date(2025, 10, 15, 23, 59, 0, 0, time.UTC)

func TestExecute_CreatesAndConfirmsRecords(t *testing.T) {
	cal := newFakeCalendar()
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	plan := domain.SyncPlan{Creates: []domain.PlannedOp{createOp("HW 1", due)}}

	res := e.Execute(context.Background(), "cs101", plan)

	assert.Equal(t, 1, res.Created)
	assert.Empty(t, res.Failed)
	assert.NotEmpty(t, res.InvocationID)

	require.Len(t, records.upserted, 1)
	rec := records.upserted[0]
	assert.Equal(t, "cs101", rec.CourseID)
	assert.Equal(t, "fp-HW 1", rec.Fingerprint)
	assert.Equal(t, "ext-HW 1", rec.ExternalEventID)
	assert.False(t, rec.UserEdited)
	assert.NotEmpty(t, rec.ContentHash)
}

func TestExecute_PartialFailureIsolation(t *testing.T) {
	cal := newFakeCalendar()
	cal.failOn["HW 2"] = &domain.CalendarError{Op: "create", Kind: domain.CalendarErrPermanent, Status: 400, Err: errors.New("invalid payload")}
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	plan := domain.SyncPlan{Creates: []domain.PlannedOp{
		createOp("HW 1", due),
		createOp("HW 2", due.Add(24*time.Hour)),
		createOp("HW 3", due.Add(48*time.Hour)),
		createOp("HW 4", due.Add(72*time.Hour)),
		createOp("HW 5", due.Add(96*time.Hour)),
	}}

	res := e.Execute(context.Background(), "cs101", plan)

	// The failure on one event does not roll back or block the others.
	assert.Equal(t, 4, res.Created)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "HW 2", res.Failed[0].Title)
	assert.Equal(t, domain.CalendarErrPermanent, res.Failed[0].Kind)
	assert.Len(t, records.upserted, 4)
}

func TestExecute_TransientErrorsRetried(t *testing.T) {
	cal := newFakeCalendar()
	transient := &domain.CalendarError{Op: "create", Kind: domain.CalendarErrTransient, Status: 429, Err: errors.New("rate limited")}
	cal.failOn["HW 1"] = transient
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	plan := domain.SyncPlan{Creates: []domain.PlannedOp{createOp("HW 1", due)}}

	res := e.Execute(context.Background(), "cs101", plan)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, domain.CalendarErrTransient, res.Failed[0].Kind)
	assert.Equal(t, 3, cal.attempts["HW 1"]) // retried to the bound
}

func TestExecute_PermanentErrorsNotRetried(t *testing.T) {
	cal := newFakeCalendar()
	cal.failOn["HW 1"] = &domain.CalendarError{Op: "create", Kind: domain.CalendarErrPermanent, Status: 403, Err: errors.New("permission denied")}
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	plan := domain.SyncPlan{Creates: []domain.PlannedOp{createOp("HW 1", due)}}

	res := e.Execute(context.Background(), "cs101", plan)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, cal.attempts["HW 1"])
}

func TestExecute_FailureLeavesRecordUntouched(t *testing.T) {
	cal := newFakeCalendar()
	cal.failOn["HW 1"] = &domain.CalendarError{Op: "update", Kind: domain.CalendarErrPermanent, Status: 400, Err: errors.New("bad")}
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	op := createOp("HW 1", due)
	op.Record = &domain.SyncedEventRecord{
		CourseID:        "cs101",
		Fingerprint:     op.Event.Fingerprint,
		ExternalEventID: "ext-old",
		ContentHash:     "old-hash",
	}
	op.Reason = domain.ReasonChanged

	res := e.Execute(context.Background(), "cs101", domain.SyncPlan{Updates: []domain.PlannedOp{op}})

	require.Len(t, res.Failed, 1)
	// No record write: a retried sync stays naturally idempotent.
	assert.Empty(t, records.upserted)
}

func TestExecute_DeletesRemoveRecords(t *testing.T) {
	cal := newFakeCalendar()
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	plan := domain.SyncPlan{Deletes: []domain.PlannedOp{{
		Record: &domain.SyncedEventRecord{CourseID: "cs101", Fingerprint: "fp-gone", ExternalEventID: "ext-gone"},
		Reason: domain.ReasonUnlisted,
	}}}

	res := e.Execute(context.Background(), "cs101", plan)

	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, []string{"ext-gone"}, cal.deleted)
	assert.Equal(t, []string{"fp-gone"}, records.deleted)
}

func TestExecute_SkipsAndStaleSurfacedAsNotes(t *testing.T) {
	cal := newFakeCalendar()
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	plan := domain.SyncPlan{
		Skips: []domain.PlannedOp{{
			Event:  domain.NormalizedEvent{Title: "Assignment 1", Fingerprint: "fp-hw"},
			Reason: domain.ReasonUserEdited,
		}},
		Stale: []domain.SyncedEventRecord{{Fingerprint: "fp-old"}},
	}

	res := e.Execute(context.Background(), "cs101", plan)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Stale)
	require.Len(t, res.Notes, 2)
	assert.Contains(t, res.Notes[0], "Assignment 1")
}

func TestExecute_CancellationReturnsPartialResult(t *testing.T) {
	cal := newFakeCalendar()
	records := &fakeRecords{}
	e := testExecutor(cal, records)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := domain.SyncPlan{Creates: []domain.PlannedOp{createOp("HW 1", due)}}

	res := e.Execute(ctx, "cs101", plan)

	assert.True(t, res.Canceled)
	assert.Equal(t, 0, res.Created)
	assert.Empty(t, cal.created) // nothing dispatched after cancel
}

// Package executor applies a SyncPlan against the external calendar
// with per-operation retry and partial-failure reporting.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"coursecal/internal/calendar"
	"coursecal/internal/domain"
)

// RecordStore is the slice of the synced-event store the executor
// needs: confirming a calendar write and forgetting deleted mappings.
type RecordStore interface {
	Upsert(ctx context.Context, rec *domain.SyncedEventRecord) error
	Delete(ctx context.Context, courseID, fingerprint string) error
}

// Config holds executor tuning knobs.
type Config struct {
	Workers        int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Executor runs plan operations with bounded concurrency. Each
// operation is attempted independently; one failure never aborts the
// rest of the plan.
type Executor struct {
	cal            calendar.Client
	records        RecordStore
	workers        int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cal calendar.Client, records RecordStore, cfg Config, logger *slog.Logger) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 15 * time.Second
	}
	return &Executor{
		cal:            cal,
		records:        records,
		workers:        cfg.Workers,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "executor"),
	}
}

// Execute applies the plan: creates first, then updates, then any
// opted-in deletes. Record writes for a fingerprint happen strictly
// after the corresponding calendar write succeeds. On cancellation,
// operations already dispatched complete but no further ones start;
// the partial result is still returned.
func (e *Executor) Execute(ctx context.Context, courseID string, plan domain.SyncPlan) domain.SyncResult {
	start := time.Now()

	res := &syncState{
		result: domain.SyncResult{
			InvocationID: uuid.NewString(),
			CourseID:     courseID,
			Skipped:      len(plan.Skips),
			Stale:        len(plan.Stale),
		},
	}

	for _, op := range plan.Skips {
		res.note(fmt.Sprintf("skipped %q: %s", op.Event.Title, op.Reason))
	}
	for _, rec := range plan.Stale {
		res.note(fmt.Sprintf("stale record %s: %s", rec.Fingerprint, domain.ReasonUnlisted))
	}

	// Creates run before updates so a partial failure leaves the
	// soonest-due new items synced first.
	e.runGroup(ctx, courseID, plan.Creates, res, e.applyCreate)
	e.runGroup(ctx, courseID, plan.Updates, res, e.applyUpdate)
	e.runGroup(ctx, courseID, plan.Deletes, res, e.applyDelete)

	res.result.Canceled = ctx.Err() != nil
	res.result.Duration = time.Since(start)

	e.logger.Info("plan executed",
		"invocation_id", res.result.InvocationID,
		"course_id", courseID,
		"created", res.result.Created,
		"updated", res.result.Updated,
		"deleted", res.result.Deleted,
		"skipped", res.result.Skipped,
		"stale", res.result.Stale,
		"failed", len(res.result.Failed),
		"canceled", res.result.Canceled,
		"duration", res.result.Duration,
	)

	return res.result
}

type applyFunc func(ctx context.Context, courseID string, op domain.PlannedOp, res *syncState)

func (e *Executor) runGroup(ctx context.Context, courseID string, ops []domain.PlannedOp, res *syncState, apply applyFunc) {
	if len(ops) == 0 {
		return
	}

	g := &errgroup.Group{}
	g.SetLimit(e.workers)

	for _, op := range ops {
		// Cancellation stops dispatching; in-flight operations are
		// allowed to complete to avoid half-applied external state.
		if ctx.Err() != nil {
			break
		}
		op := op
		g.Go(func() error {
			apply(context.WithoutCancel(ctx), courseID, op, res)
			return nil
		})
	}

	_ = g.Wait()
}

func (e *Executor) applyCreate(ctx context.Context, courseID string, op domain.PlannedOp, res *syncState) {
	payload := calendar.PayloadFor(op.Event)

	externalID, err := e.withRetry(ctx, func(ctx context.Context) (string, error) {
		return e.cal.CreateEvent(ctx, courseID, payload)
	})
	if err != nil {
		res.fail(op.Event.Fingerprint, op.Event.Title, "create", err)
		return
	}

	e.confirm(ctx, res, &domain.SyncedEventRecord{
		CourseID:        courseID,
		Fingerprint:     op.Event.Fingerprint,
		ExternalEventID: externalID,
		ContentHash:     payload.Hash(),
		LastSyncedAt:    time.Now().UTC(),
	}, &res.result.Created)
}

func (e *Executor) applyUpdate(ctx context.Context, courseID string, op domain.PlannedOp, res *syncState) {
	payload := calendar.PayloadFor(op.Event)

	_, err := e.withRetry(ctx, func(ctx context.Context) (string, error) {
		return "", e.cal.UpdateEvent(ctx, courseID, op.Record.ExternalEventID, payload)
	})
	if err != nil {
		res.fail(op.Event.Fingerprint, op.Event.Title, "update", err)
		return
	}

	rec := *op.Record
	rec.ContentHash = payload.Hash()
	rec.LastSyncedAt = time.Now().UTC()
	e.confirm(ctx, res, &rec, &res.result.Updated)
}

func (e *Executor) applyDelete(ctx context.Context, courseID string, op domain.PlannedOp, res *syncState) {
	_, err := e.withRetry(ctx, func(ctx context.Context) (string, error) {
		return "", e.cal.DeleteEvent(ctx, courseID, op.Record.ExternalEventID)
	})
	if err != nil {
		res.fail(op.Record.Fingerprint, "", "delete", err)
		return
	}

	if err := e.records.Delete(ctx, courseID, op.Record.Fingerprint); err != nil {
		// Calendar write applied; surface the bookkeeping failure.
		res.note(fmt.Sprintf("record delete failed for %s: %v", op.Record.Fingerprint, err))
		return
	}
	res.count(&res.result.Deleted)
}

// confirm persists the record only after the calendar confirmed the
// write; a failed record write is reported and the next sync repairs
// it via reconciliation.
func (e *Executor) confirm(ctx context.Context, res *syncState, rec *domain.SyncedEventRecord, counter *int) {
	if err := e.records.Upsert(ctx, rec); err != nil {
		res.note(fmt.Sprintf("record upsert failed for %s: %v", rec.Fingerprint, err))
		return
	}
	res.count(counter)
}

// withRetry retries transient calendar failures with exponential
// backoff. Permanent failures are returned immediately.
func (e *Executor) withRetry(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	var out string
	var err error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		out, err = call(ctx)
		if err == nil {
			return out, nil
		}
		if !domain.IsTransientCalendarError(err) {
			return "", err
		}
		if attempt == e.maxAttempts {
			break
		}

		backoff := e.calculateBackoff(attempt)
		e.logger.Warn("calendar operation failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("after %d attempts: %w", attempt, err)
		case <-time.After(backoff):
		}
	}

	return "", fmt.Errorf("after %d attempts: %w", e.maxAttempts, err)
}

func (e *Executor) calculateBackoff(attempt int) time.Duration {
	backoff := e.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > e.maxBackoff {
		backoff = e.maxBackoff
	}
	return backoff
}

// syncState accumulates the SyncResult across concurrent workers.
type syncState struct {
	mu     sync.Mutex
	result domain.SyncResult
}

func (s *syncState) count(counter *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*counter++
}

func (s *syncState) note(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Notes = append(s.result.Notes, msg)
}

func (s *syncState) fail(fingerprint, title, op string, err error) {
	kind := domain.CalendarErrPermanent
	var ce *domain.CalendarError
	if errors.As(err, &ce) {
		kind = ce.Kind
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Failed = append(s.result.Failed, domain.FailedOp{
		Fingerprint: fingerprint,
		Title:       title,
		Op:          op,
		Kind:        kind,
		Error:       err.Error(),
	})
}

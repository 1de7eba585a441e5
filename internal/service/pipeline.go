package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"coursecal/internal/config"
	"coursecal/internal/domain"
	"coursecal/internal/metrics"
	"coursecal/internal/normalizer"
	"coursecal/internal/reconciler"
)

// PipelineService ties the extraction and sync stages together. It is
// safe for concurrent use; sync invocations for the same course are
// serialized so two overlapping runs cannot interleave calendar writes.
type PipelineService struct {
	loader    DocumentLoader
	extractor EventExtractor
	records   RecordStore
	calendar  CalendarReader
	executor  PlanExecutor
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    config.SyncConfig
	location  *time.Location
	now       func() time.Time

	mu          sync.Mutex
	courseLocks map[string]*sync.Mutex
}

func NewPipelineService(
	loader DocumentLoader,
	extractor EventExtractor,
	records RecordStore,
	cal CalendarReader,
	executor PlanExecutor,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.SyncConfig,
	loc *time.Location,
) *PipelineService {
	return &PipelineService{
		loader:      loader,
		extractor:   extractor,
		records:     records,
		calendar:    cal,
		executor:    executor,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
		config:      cfg,
		location:    loc,
		now:         time.Now,
		courseLocks: make(map[string]*sync.Mutex),
	}
}

// ProcessSyllabus runs a document through load, extract and normalize.
// Item-level problems become warnings on the result; only document-level
// failures (unreadable input, no text at all, extractor outage) return
// an error.
func (s *PipelineService) ProcessSyllabus(ctx context.Context, doc domain.Document) (*domain.ProcessResult, error) {
	logger := s.logger.With("course_id", doc.CourseID, "document", doc.Name)
	logger.Info("processing syllabus", "bytes", len(doc.Data))

	pages, err := s.loader.Load(ctx, doc.Data, doc.MediaType)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	stats := domain.ProcessStats{Pages: len(pages)}
	empty := 0
	for _, p := range pages {
		switch p.Method {
		case domain.MethodOCR:
			stats.OCRPages++
		default:
			stats.NativePages++
		}
		if s.metrics != nil {
			s.metrics.PagesProcessed.WithLabelValues(string(p.Method)).Inc()
		}
		if strings.TrimSpace(p.Text) == "" {
			empty++
		}
	}
	if empty == len(pages) {
		return nil, fmt.Errorf("%w: no text recoverable from any of %d pages", domain.ErrEmptyDocument, len(pages))
	}

	candidates, warnings, err := s.extractor.Extract(ctx, pages)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedExtraction) {
			// A garbled model response spoils one document, not the run.
			logger.Warn("extraction produced malformed output", "error", err)
			warnings = append(warnings, "extraction output was malformed; no events recovered")
			candidates = nil
		} else {
			return nil, fmt.Errorf("extract events: %w", err)
		}
	}

	events := normalizer.Normalize(candidates, s.location, s.now(), normalizer.Config{
		DueSoonWindow: s.config.DueSoonWindow,
	})

	stats.Extracted = len(candidates)
	stats.Deduplicated = len(candidates) - len(events)

	if empty > 0 {
		warnings = append(warnings, fmt.Sprintf("%d of %d pages produced no text", empty, len(pages)))
	}
	if past := countPastDate(events); past > 0 {
		warnings = append(warnings, fmt.Sprintf("%d events dated in the past were kept with reduced confidence", past))
	}

	if s.metrics != nil {
		s.metrics.EventsExtracted.Add(float64(stats.Extracted))
		s.metrics.EventsDropped.Add(float64(len(warnings)))
		s.metrics.EventsMerged.Add(float64(stats.Deduplicated))
	}

	logger.Info("syllabus processed",
		"pages", stats.Pages,
		"ocr_pages", stats.OCRPages,
		"extracted", stats.Extracted,
		"deduplicated", stats.Deduplicated,
		"events", len(events),
		"warnings", len(warnings),
	)

	return &domain.ProcessResult{Events: events, Warnings: warnings, Stats: stats}, nil
}

// SyncToCalendar reconciles events against the stored records for a
// course and applies the resulting plan. The course's calendar is
// re-read first so manual user edits are detected before planning.
func (s *PipelineService) SyncToCalendar(ctx context.Context, courseID string, events []domain.NormalizedEvent) (*domain.SyncResult, error) {
	lock := s.courseLock(courseID)
	lock.Lock()
	defer lock.Unlock()

	logger := s.logger.With("course_id", courseID)
	logger.Info("starting calendar sync", "events", len(events))

	records, err := s.records.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list synced records: %w", err)
	}

	driftNotes := s.detectUserEdits(ctx, courseID, records)

	plan := reconciler.Reconcile(events, records, reconciler.Options{
		IncludeDeletes: s.config.IncludeDeletes,
	})

	logger.Info("reconciliation plan ready",
		"creates", len(plan.Creates),
		"updates", len(plan.Updates),
		"deletes", len(plan.Deletes),
		"skips", len(plan.Skips),
		"stale", len(plan.Stale),
	)

	result := s.executor.Execute(ctx, courseID, plan)
	result.Notes = append(result.Notes, driftNotes...)

	if s.metrics != nil {
		s.metrics.Syncs.Inc()
		s.metrics.CalendarOps.WithLabelValues("create", "ok").Add(float64(result.Created))
		s.metrics.CalendarOps.WithLabelValues("update", "ok").Add(float64(result.Updated))
		s.metrics.CalendarOps.WithLabelValues("delete", "ok").Add(float64(result.Deleted))
		for _, f := range result.Failed {
			s.metrics.CalendarOps.WithLabelValues(f.Op, "failed").Inc()
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSyncResult(ctx, &result); err != nil {
			// Notification is best-effort; the sync itself already landed.
			logger.Error("failed to publish sync result", "error", err)
		}
	}

	logger.Info("calendar sync completed",
		"invocation_id", result.InvocationID,
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"stale", result.Stale,
		"failed", len(result.Failed),
		"canceled", result.Canceled,
		"duration", result.Duration,
	)

	return &result, nil
}

// detectUserEdits compares each record's last-pushed content hash with
// what the calendar currently holds. A mismatch means the user changed
// the entry by hand, so the record is flagged and the snapshot updated
// in place before planning.
func (s *PipelineService) detectUserEdits(ctx context.Context, courseID string, records []domain.SyncedEventRecord) []string {
	var notes []string
	for i := range records {
		rec := &records[i]
		if rec.UserEdited {
			continue
		}

		current, err := s.calendar.GetEvent(ctx, courseID, rec.ExternalEventID)
		if err != nil {
			s.logger.Warn("could not read calendar event for drift check",
				"course_id", courseID,
				"fingerprint", rec.Fingerprint,
				"error", err,
			)
			continue
		}
		if current.Payload.Hash() == rec.ContentHash {
			continue
		}

		if err := s.records.SetUserEdited(ctx, courseID, rec.Fingerprint, true); err != nil {
			s.logger.Error("failed to flag user-edited record",
				"course_id", courseID,
				"fingerprint", rec.Fingerprint,
				"error", err,
			)
			continue
		}
		rec.UserEdited = true
		notes = append(notes, fmt.Sprintf("detected manual edit of %q; future updates suspended", rec.Fingerprint))
	}
	return notes
}

func (s *PipelineService) courseLock(courseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.courseLocks[courseID]
	if !ok {
		lock = &sync.Mutex{}
		s.courseLocks[courseID] = lock
	}
	return lock
}

func countPastDate(events []domain.NormalizedEvent) int {
	n := 0
	for _, ev := range events {
		if ev.PastDate {
			n++
		}
	}
	return n
}

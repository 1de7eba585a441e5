package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coursecal/internal/config"
	"coursecal/internal/domain"
	"coursecal/internal/ics"
)

// Pipeline defines the processing operations the scheduler drives.
type Pipeline interface {
	ProcessSyllabus(ctx context.Context, doc domain.Document) (*domain.ProcessResult, error)
	SyncToCalendar(ctx context.Context, courseID string, events []domain.NormalizedEvent) (*domain.SyncResult, error)
}

// Scheduler polls an inbox directory for syllabus PDFs. Each file is
// run through the pipeline, exported as an ICS feed, and moved to
// processed/ or failed/ so a file is never picked up twice.
type Scheduler struct {
	pipeline Pipeline
	config   config.SyncConfig
	logger   *slog.Logger
}

func NewScheduler(pipeline Pipeline, cfg config.SyncConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		config:   cfg,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	for _, dir := range []string{s.processedDir(), s.failedDir(), s.config.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	s.logger.Info("scheduler started", "inbox", s.config.InboxDir, "interval", s.config.Interval)

	s.ScanInbox(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.ScanInbox(ctx)
		}
	}
}

// ScanInbox runs one pass over the inbox directory.
func (s *Scheduler) ScanInbox(ctx context.Context) {
	entries, err := os.ReadDir(s.config.InboxDir)
	if err != nil {
		s.logger.Error("failed to read inbox", "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		s.processFile(ctx, entry.Name())
	}
}

func (s *Scheduler) processFile(ctx context.Context, name string) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	path := filepath.Join(s.config.InboxDir, name)
	courseID := courseIDFromName(name)
	logger := s.logger.With("file", name, "course_id", courseID)

	if err := s.run(runCtx, path, name, courseID, logger); err != nil {
		logger.Error("syllabus processing failed", "error", err)
		s.move(path, s.failedDir(), name, logger)
		return
	}
	s.move(path, s.processedDir(), name, logger)
}

func (s *Scheduler) run(ctx context.Context, path, name, courseID string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	result, err := s.pipeline.ProcessSyllabus(ctx, domain.Document{
		CourseID:  courseID,
		Name:      name,
		MediaType: "application/pdf",
		Data:      data,
	})
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warn("processing warning", "detail", w)
	}

	if _, err := s.pipeline.SyncToCalendar(ctx, courseID, result.Events); err != nil {
		return fmt.Errorf("sync to calendar: %w", err)
	}

	icsPath := filepath.Join(s.config.OutputDir, courseID+".ics")
	if err := ics.ExportFile(icsPath, courseID, result.Events); err != nil {
		return fmt.Errorf("export ics: %w", err)
	}

	logger.Info("syllabus processed", "events", len(result.Events), "ics", icsPath)
	return nil
}

func (s *Scheduler) move(path, dir, name string, logger *slog.Logger) {
	if err := os.Rename(path, filepath.Join(dir, name)); err != nil {
		logger.Error("failed to move file", "target", dir, "error", err)
	}
}

func (s *Scheduler) processedDir() string {
	return filepath.Join(s.config.InboxDir, "processed")
}

func (s *Scheduler) failedDir() string {
	return filepath.Join(s.config.InboxDir, "failed")
}

// courseIDFromName derives the course identifier from the file name:
// "cs101.pdf" and "cs101 fall syllabus.pdf" both map to course cs101.
func courseIDFromName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.IndexAny(stem, " _"); i > 0 {
		stem = stem[:i]
	}
	return strings.ToLower(stem)
}

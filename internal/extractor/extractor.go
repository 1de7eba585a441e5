// Package extractor turns page-level document text into validated
// candidate events via an external structured-extraction capability.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"coursecal/internal/domain"
)

// defaultConfidence is used when the capability reports no usable
// source page for an event.
const defaultConfidence = 0.5

// Extractor validates the capability's loosely-typed output into
// CandidateEvents. Per-event validation failures are dropped with a
// diagnostic, never fatal to the batch.
type Extractor struct {
	client Client
	logger *slog.Logger
}

func New(client Client, logger *slog.Logger) *Extractor {
	return &Extractor{
		client: client,
		logger: logger.With("component", "extractor"),
	}
}

// Extract sends the concatenated page text to the extraction
// capability and validates every returned record. The second return
// value lists per-event drop diagnostics.
func (e *Extractor) Extract(ctx context.Context, pages []domain.PageText) ([]domain.CandidateEvent, []string, error) {
	text := JoinPages(pages)

	raw, err := e.client.ExtractEvents(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("extract events: %w", err)
	}

	candidates := make([]domain.CandidateEvent, 0, len(raw))
	var warnings []string

	for i, r := range raw {
		cand, warn, ok := e.validate(r, pages)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if !ok {
			e.logger.Debug("dropped extracted event", "index", i, "title", r.Title, "reason", warn)
			continue
		}
		candidates = append(candidates, cand)
	}

	e.logger.Info("extraction completed",
		"returned", len(raw),
		"valid", len(candidates),
		"dropped", len(raw)-len(candidates),
	)

	return candidates, warnings, nil
}

// JoinPages concatenates page texts with page-boundary markers so the
// extraction capability can report a source page for each event.
func JoinPages(pages []domain.PageText) string {
	var b strings.Builder
	for _, p := range pages {
		fmt.Fprintf(&b, "--- PAGE %d ---\n", p.Page)
		b.WriteString(p.Text)
		if !strings.HasSuffix(p.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (e *Extractor) validate(r RawEvent, pages []domain.PageText) (domain.CandidateEvent, string, bool) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return domain.CandidateEvent{}, "dropped event with empty title", false
	}

	if strings.TrimSpace(r.DueDate) == "" {
		return domain.CandidateEvent{}, fmt.Sprintf("dropped %q: missing due date", title), false
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return domain.CandidateEvent{}, fmt.Sprintf("dropped %q: unparseable due date %q", title, r.DueDate), false
	}

	cand := domain.CandidateEvent{
		Title:       title,
		Type:        domain.ParseEventType(strings.ToLower(strings.TrimSpace(r.Type))),
		DueDate:     due,
		Description: r.Description,
		Points:      r.Points,
		Confidence:  defaultConfidence,
	}

	var warn string
	if r.DueTime != "" {
		if tod, err := parseTimeOfDay(r.DueTime); err == nil {
			cand.DueTime = tod
		} else {
			warn = fmt.Sprintf("ignored unparseable due time %q for %q", r.DueTime, title)
		}
	}

	if r.SourcePage >= 1 && r.SourcePage <= len(pages) {
		cand.SourcePage = r.SourcePage
		cand.Confidence = pages[r.SourcePage-1].Confidence
	}

	return cand, warn, true
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3PM",
}

func parseTimeOfDay(s string) (*domain.TimeOfDay, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &domain.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	// Bare hour, e.g. "23".
	if h, err := strconv.Atoi(s); err == nil && h >= 0 && h <= 23 {
		return &domain.TimeOfDay{Hour: h}, nil
	}
	return nil, fmt.Errorf("unrecognized time format: %q", s)
}

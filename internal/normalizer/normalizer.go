// Package normalizer canonicalizes candidate events: absolute due
// timestamps in a single resolved time zone, stable content
// fingerprints, derived priorities, and fingerprint deduplication.
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"coursecal/internal/domain"
)

// pastDateConfidence caps the confidence of events dated before
// processing time. They are kept, not dropped, since some courses
// intentionally reference past dates.
const pastDateConfidence = 0.3

// Config holds normalization knobs.
type Config struct {
	// DueSoonWindow escalates assignment/quiz priority when the due
	// date falls within this window of processing time.
	DueSoonWindow time.Duration
}

// Normalize is a pure function: it never fails and never mutates its
// input. Candidates collapsing to the same fingerprint are merged,
// keeping the highest-confidence source.
func Normalize(candidates []domain.CandidateEvent, loc *time.Location, now time.Time, cfg Config) []domain.NormalizedEvent {
	if loc == nil {
		loc = time.Local
	}
	window := cfg.DueSoonWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}

	byFingerprint := make(map[string]domain.NormalizedEvent)
	var order []string

	for _, c := range candidates {
		ev := normalizeOne(c, loc, now, window)

		existing, seen := byFingerprint[ev.Fingerprint]
		if !seen {
			byFingerprint[ev.Fingerprint] = ev
			order = append(order, ev.Fingerprint)
			continue
		}
		if wins(ev, existing) {
			byFingerprint[ev.Fingerprint] = ev
		}
	}

	out := make([]domain.NormalizedEvent, 0, len(order))
	for _, fp := range order {
		out = append(out, byFingerprint[fp])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Due.Before(out[j].Due)
	})
	return out
}

func normalizeOne(c domain.CandidateEvent, loc *time.Location, now time.Time, window time.Duration) domain.NormalizedEvent {
	y, m, d := c.DueDate.Date()

	var due time.Time
	allDay := c.DueTime == nil
	if allDay {
		// End-of-day deadline for events without an explicit time.
		due = time.Date(y, m, d, 23, 59, 0, 0, loc)
	} else {
		due = time.Date(y, m, d, c.DueTime.Hour, c.DueTime.Minute, 0, 0, loc)
	}

	ev := domain.NormalizedEvent{
		Title:       strings.TrimSpace(c.Title),
		Type:        c.Type,
		Due:         due,
		AllDay:      allDay,
		Description: c.Description,
		Points:      c.Points,
		SourcePage:  c.SourcePage,
		Confidence:  c.Confidence,
		Fingerprint: Fingerprint(c.Title, c.Type, c.DueDate),
		Priority:    derivePriority(c.Type, due, now, window),
	}

	if due.Before(now) {
		ev.PastDate = true
		if ev.Confidence > pastDateConfidence {
			ev.Confidence = pastDateConfidence
		}
	}

	return ev
}

// Fingerprint is the deduplication and matching key: a hash of the
// normalized title, type and calendar date. Case and whitespace
// insensitive.
func Fingerprint(title string, typ domain.EventType, date time.Time) string {
	key := fmt.Sprintf("%s|%s|%s", foldText(title), typ, date.Format("2006-01-02"))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

func foldText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func derivePriority(typ domain.EventType, due, now time.Time, window time.Duration) domain.Priority {
	base := typePriority(typ)

	// Assignments and quizzes escalate when due soon.
	if (typ == domain.EventAssignment || typ == domain.EventQuiz) &&
		!due.Before(now) && due.Sub(now) <= window {
		return escalate(base)
	}
	return base
}

func typePriority(typ domain.EventType) domain.Priority {
	switch typ {
	case domain.EventExam, domain.EventProject:
		return domain.PriorityHigh
	case domain.EventAssignment:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func escalate(p domain.Priority) domain.Priority {
	switch p {
	case domain.PriorityLow:
		return domain.PriorityMedium
	case domain.PriorityMedium:
		return domain.PriorityHigh
	}
	return p
}

// wins decides which of two same-fingerprint events survives the
// merge: higher source confidence first, then the one with more
// populated optional fields.
func wins(candidate, incumbent domain.NormalizedEvent) bool {
	if candidate.Confidence != incumbent.Confidence {
		return candidate.Confidence > incumbent.Confidence
	}
	return optionalFields(candidate) > optionalFields(incumbent)
}

func optionalFields(ev domain.NormalizedEvent) int {
	n := 0
	if ev.Description != nil && *ev.Description != "" {
		n++
	}
	if ev.Points != nil {
		n++
	}
	return n
}

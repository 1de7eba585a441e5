// Package calendar defines the external calendar capability: event
// create/update/delete keyed by an opaque external id, plus read
// access for drift detection.
package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"coursecal/internal/domain"
)

// EventPayload is the provider-independent shape pushed to (and read
// back from) the external calendar.
type EventPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	AllDay      bool      `json:"all_day"`
}

// Hash is a deterministic digest of the payload's mapped fields. The
// stored hash of the last-pushed state is compared against the hash of
// the calendar's current state to detect manual user edits.
func (p EventPayload) Hash() string {
	key := fmt.Sprintf("%s|%s|%s|%t",
		strings.TrimSpace(p.Title),
		strings.TrimSpace(p.Description),
		p.Start.UTC().Format(time.RFC3339),
		p.AllDay,
	)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

// Event is a calendar event as the provider reports it.
type Event struct {
	ID      string
	Payload EventPayload
}

// Client is the calendar capability. Implementations classify
// failures as *domain.CalendarError with a transient or permanent
// kind.
type Client interface {
	CreateEvent(ctx context.Context, calendarID string, p EventPayload) (string, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, p EventPayload) error
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error)
	ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error)
}

// PayloadFor maps a normalized event onto the calendar payload. The
// derived priority and points travel in the description so they
// survive the round trip through providers without custom fields.
func PayloadFor(ev domain.NormalizedEvent) EventPayload {
	var desc strings.Builder
	desc.WriteString(fmt.Sprintf("[%s] priority: %s", ev.Type, ev.Priority))
	if ev.Points != nil {
		desc.WriteString(fmt.Sprintf(", points: %g", *ev.Points))
	}
	if ev.Description != nil && *ev.Description != "" {
		desc.WriteString("\n")
		desc.WriteString(*ev.Description)
	}

	return EventPayload{
		Title:       ev.Title,
		Description: desc.String(),
		Start:       ev.Due,
		AllDay:      ev.AllDay,
	}
}

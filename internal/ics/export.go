// Package ics renders normalized events as an iCalendar file so a
// processed syllabus can be imported into any calendar application
// without the sync pipeline.
package ics

import (
	"fmt"
	"io"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"

	"coursecal/internal/domain"
)

// Export writes the events of one course as a VCALENDAR. Event UIDs
// are derived from the content fingerprint so re-exports stay stable.
func Export(w io.Writer, courseID string, events []domain.NormalizedEvent) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//coursecal//syllabus sync//EN")

	now := time.Now().UTC()
	for _, ev := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s-%s@coursecal", courseID, ev.Fingerprint))
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Due)
		} else {
			ve.SetStartAt(ev.Due)
			ve.SetEndAt(ev.Due.Add(time.Hour))
		}
		if ev.Description != nil && *ev.Description != "" {
			ve.SetDescription(*ev.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, string(ev.Type))
	}

	return cal.SerializeTo(w)
}

// ExportFile writes the calendar to path, creating or truncating it.
func ExportFile(path, courseID string, events []domain.NormalizedEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	if err := Export(f, courseID, events); err != nil {
		return fmt.Errorf("serialize ics: %w", err)
	}
	return nil
}

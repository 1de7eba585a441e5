package ics

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursecal/internal/domain"
	"coursecal/testdata/utils"
)

func sampleEvents() []domain.NormalizedEvent {
	return []domain.NormalizedEvent{
		{
			Title:       "Assignment 1",
			Type:        domain.EventAssignment,
			Due:         time.Date(2025, 10, 15, 23, 59, 0, 0, time.UTC),
			AllDay:      true,
			Fingerprint: "abc123",
			Priority:    domain.PriorityMedium,
		},
		{
			Title:       "Exam 1",
			Type:        domain.EventExam,
			Due:         time.Date(2025, 10, 30, 14, 0, 0, 0, time.UTC),
			Fingerprint: "def456",
			Priority:    domain.PriorityHigh,
			Description: utils.Ptr("Chapters 1-5"),
		},
	}
}

func TestExport_SerializesEvents(t *testing.T) {
	var buf bytes.Buffer

	err := Export(&buf, "cs101", sampleEvents())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Assignment 1")
	assert.Contains(t, out, "SUMMARY:Exam 1")
	assert.Contains(t, out, "UID:cs101-abc123@coursecal")
	assert.Contains(t, out, "DESCRIPTION:Chapters 1-5")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestExportFile_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cs101.ics")

	err := ExportFile(path, "cs101", sampleEvents())
	require.NoError(t, err)

	assert.FileExists(t, path)
}

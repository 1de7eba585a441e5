package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"coursecal/internal/calendar"
	"coursecal/internal/domain"
)

type DocumentLoader interface {
	Load(ctx context.Context, data []byte, mediaType string) ([]domain.PageText, error)
}

type EventExtractor interface {
	Extract(ctx context.Context, pages []domain.PageText) ([]domain.CandidateEvent, []string, error)
}

type RecordStore interface {
	ListByCourse(ctx context.Context, courseID string) ([]domain.SyncedEventRecord, error)
	SetUserEdited(ctx context.Context, courseID, fingerprint string, edited bool) error
}

type CalendarReader interface {
	GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error)
}

type PlanExecutor interface {
	Execute(ctx context.Context, courseID string, plan domain.SyncPlan) domain.SyncResult
}

type Publisher interface {
	PublishSyncResult(ctx context.Context, result *domain.SyncResult) error
	Close() error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"coursecal/internal/domain"
)

// ErrRecordNotFound is returned when no record exists for a
// (courseID, fingerprint) pair.
var ErrRecordNotFound = errors.New("synced event record not found")

// SyncedEventStore persists the (courseID, fingerprint) to external
// calendar event mapping.
type SyncedEventStore struct {
	db *sqlx.DB
}

func NewSyncedEventStore(db *sqlx.DB) *SyncedEventStore {
	return &SyncedEventStore{db: db}
}

// ListByCourse returns the full record snapshot for one course.
func (s *SyncedEventStore) ListByCourse(ctx context.Context, courseID string) ([]domain.SyncedEventRecord, error) {
	query := `
		SELECT id, course_id, fingerprint, external_event_id, content_hash, user_edited, last_synced_at
		FROM synced_events
		WHERE course_id = $1
		ORDER BY id`

	var records []domain.SyncedEventRecord
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &records, query, courseID); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches one record by its matching key.
func (s *SyncedEventStore) Get(ctx context.Context, courseID, fingerprint string) (*domain.SyncedEventRecord, error) {
	query := `
		SELECT id, course_id, fingerprint, external_event_id, content_hash, user_edited, last_synced_at
		FROM synced_events
		WHERE course_id = $1 AND fingerprint = $2`

	var rec domain.SyncedEventRecord
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &rec, query, courseID, fingerprint)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert inserts or refreshes a record after a confirmed calendar
// write. The user_edited flag is preserved on conflict; clearing it is
// an explicit user action handled elsewhere.
func (s *SyncedEventStore) Upsert(ctx context.Context, rec *domain.SyncedEventRecord) error {
	query := `
		INSERT INTO synced_events (
			course_id, fingerprint, external_event_id, content_hash, user_edited, last_synced_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_id, fingerprint) DO UPDATE SET
			external_event_id = EXCLUDED.external_event_id,
			content_hash = EXCLUDED.content_hash,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = now()
		RETURNING id`

	return sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &rec.ID, query,
		rec.CourseID,
		rec.Fingerprint,
		rec.ExternalEventID,
		rec.ContentHash,
		rec.UserEdited,
		rec.LastSyncedAt,
	)
}

// SetUserEdited flips the user-edit protection flag for a record.
func (s *SyncedEventStore) SetUserEdited(ctx context.Context, courseID, fingerprint string, edited bool) error {
	query := `
		UPDATE synced_events
		SET user_edited = $3, updated_at = now()
		WHERE course_id = $1 AND fingerprint = $2`

	result, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, courseID, fingerprint, edited)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes a record after its calendar event was deleted.
func (s *SyncedEventStore) Delete(ctx context.Context, courseID, fingerprint string) error {
	query := `DELETE FROM synced_events WHERE course_id = $1 AND fingerprint = $2`
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, courseID, fingerprint)
	return err
}

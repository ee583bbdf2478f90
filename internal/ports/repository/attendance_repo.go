package repository

import (
	"context"
	"database/sql"
	"time"

	"attendance.bot/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Repository contract for the attendance event log.
type Repository interface {
	SaveEvent(ctx context.Context, event model.AttendanceEvent) (int64, error)
	LastEvent(ctx context.Context, userID string) (*model.AttendanceEvent, error)
	LastEventOfKind(ctx context.Context, userID string, kind model.EventKind) (*model.AttendanceEvent, error)
	EventsBetween(ctx context.Context, userID string, from, to time.Time) ([]model.AttendanceEvent, error)
	GetEvent(ctx context.Context, id int64) (*model.AttendanceEvent, error)
	UpdateNotifyStatus(ctx context.Context, id int64, status model.NotifyStatus, retryCount int) error
}

// AttendanceRepository is the concrete implementation for a PostgreSQL database.
type AttendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository create new instance
func NewAttendanceRepository(db *sql.DB) Repository {
	return &AttendanceRepository{DB: db}
}

// SaveEvent inserts one attendance event and returns its id.
func (r *AttendanceRepository) SaveEvent(ctx context.Context, event model.AttendanceEvent) (int64, error) {

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.userId", event.UserID),
		attribute.String("app.eventType", string(event.Kind)),
	)

	var id int64
	query := `INSERT INTO attendance_events (user_id, user_name, type, timestamp, notify_status, notify_retry_count)
              VALUES ($1, $2, $3, $4, $5, 0) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		event.UserID, event.UserName, event.Kind, event.Timestamp, model.StatusNotifyPending).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// LastEvent get the most recent event for a user, nil when none exists.
func (r *AttendanceRepository) LastEvent(ctx context.Context, userID string) (*model.AttendanceEvent, error) {

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	query := `SELECT id, user_id, user_name, type, timestamp, created_at
              FROM attendance_events
              WHERE user_id = $1
              ORDER BY timestamp DESC
              LIMIT 1`

	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

// LastEventOfKind get the most recent event of one kind for a user, nil when
// none exists. Used to answer "has this user ever checked in".
func (r *AttendanceRepository) LastEventOfKind(ctx context.Context, userID string, kind model.EventKind) (*model.AttendanceEvent, error) {

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	query := `SELECT id, user_id, user_name, type, timestamp, created_at
              FROM attendance_events
              WHERE user_id = $1 AND type = $2
              ORDER BY timestamp DESC
              LIMIT 1`

	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, kind))
}

// EventsBetween returns a user's events with from <= timestamp < to,
// ascending by timestamp.
func (r *AttendanceRepository) EventsBetween(ctx context.Context, userID string, from, to time.Time) ([]model.AttendanceEvent, error) {

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.userId", userID))

	query := `SELECT id, user_id, user_name, type, timestamp, created_at
              FROM attendance_events
              WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3
              ORDER BY timestamp ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.AttendanceEvent
	for rows.Next() {
		var ev model.AttendanceEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.UserName, &ev.Kind, &ev.Timestamp, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// GetEvent fetches a complete attendance_events record by its ID.
func (r *AttendanceRepository) GetEvent(ctx context.Context, id int64) (*model.AttendanceEvent, error) {
	query := `SELECT id, user_id, user_name, type, timestamp, created_at, notify_status, notify_retry_count
	          FROM attendance_events WHERE id = $1`

	ev := &model.AttendanceEvent{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&ev.ID, &ev.UserID, &ev.UserName, &ev.Kind, &ev.Timestamp, &ev.CreatedAt,
		&ev.NotifyStatus, &ev.NotifyRetryCount,
	)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// UpdateNotifyStatus updates the delivery status and retry count for an event.
func (r *AttendanceRepository) UpdateNotifyStatus(ctx context.Context, id int64, status model.NotifyStatus, retryCount int) error {
	query := `UPDATE attendance_events
              SET notify_status = $1,
                  notify_retry_count = $2
              WHERE id = $3`

	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)

	return err
}

func (r *AttendanceRepository) scanOne(row *sql.Row) (*model.AttendanceEvent, error) {
	ev := &model.AttendanceEvent{}
	err := row.Scan(&ev.ID, &ev.UserID, &ev.UserName, &ev.Kind, &ev.Timestamp, &ev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const eventColumns = `id, project_id, provider, event_type, severity, title, metadata, created_at`

type EventRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEventRepository(db *pgxpool.Pool, logger *zap.Logger) *EventRepository {
	return &EventRepository{db: db, logger: logger}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e                  model.Event
		provider, severity string
		metadata           []byte
	)
	if err := row.Scan(&e.ID, &e.ProjectID, &provider, &e.EventType, &severity, &e.Title, &metadata, &e.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.Provider, err = model.ParseProvider(provider); err != nil {
		return nil, invalidEnum("events_cache.provider", err)
	}
	if e.Severity, err = model.ParseSeverity(severity); err != nil {
		return nil, invalidEnum("events_cache.severity", err)
	}
	if e.Metadata, err = decodeMetadata(metadata); err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert appends an event. A zero createdAt means now.
func (r *EventRepository) Insert(ctx context.Context, e model.Event) (*model.Event, error) {
	r.logger.Debug("Inserting event",
		zap.String("project_id", e.ProjectID),
		zap.String("provider", string(e.Provider)),
		zap.String("event_type", e.EventType),
	)

	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	var createdAt *time.Time
	if !e.CreatedAt.IsZero() {
		createdAt = &e.CreatedAt
	}

	query := `
		INSERT INTO events_cache (project_id, provider, event_type, severity, title, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		RETURNING ` + eventColumns
	out, err := scanEvent(r.db.QueryRow(ctx, query,
		e.ProjectID, string(e.Provider), e.EventType, string(e.Severity), e.Title, metadata, createdAt,
	))
	if err != nil {
		r.logger.Error("Failed to insert event", zap.String("project_id", e.ProjectID), zap.Error(err))
		return nil, parentMissing("insert event", err)
	}

	r.logger.Info("Event inserted", zap.String("event_id", out.ID), zap.String("project_id", out.ProjectID))
	return out, nil
}

// ListRecent returns up to limit events for the project, newest first.
func (r *EventRepository) ListRecent(ctx context.Context, projectID string, limit int) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events_cache
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, projectID, limit)
	if err != nil {
		r.logger.Error("Failed to list events", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const blockerColumns = `id, project_id, title, waiting_on, status, created_at`

type BlockerRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBlockerRepository(db *pgxpool.Pool, logger *zap.Logger) *BlockerRepository {
	return &BlockerRepository{db: db, logger: logger}
}

func scanBlocker(row pgx.Row) (*model.Blocker, error) {
	var (
		b                 model.Blocker
		waitingOn, status string
	)
	if err := row.Scan(&b.ID, &b.ProjectID, &b.Title, &waitingOn, &status, &b.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.WaitingOn, err = model.ParseWaitingOn(waitingOn); err != nil {
		return nil, invalidEnum("blockers.waiting_on", err)
	}
	if b.Status, err = model.ParseBlockerStatus(status); err != nil {
		return nil, invalidEnum("blockers.status", err)
	}
	return &b, nil
}

func (r *BlockerRepository) Create(ctx context.Context, projectID, title string, waitingOn model.WaitingOn) (*model.Blocker, error) {
	r.logger.Debug("Creating blocker", zap.String("project_id", projectID))

	query := `
		INSERT INTO blockers (project_id, title, waiting_on, status)
		VALUES ($1, $2, $3, 'open')
		RETURNING ` + blockerColumns
	b, err := scanBlocker(r.db.QueryRow(ctx, query, projectID, title, string(waitingOn)))
	if err != nil {
		r.logger.Error("Failed to create blocker", zap.String("project_id", projectID), zap.Error(err))
		return nil, parentMissing("create blocker", err)
	}

	r.logger.Info("Blocker created", zap.String("blocker_id", b.ID))
	return b, nil
}

func (r *BlockerRepository) SetStatus(ctx context.Context, id string, status model.BlockerStatus) (*model.Blocker, error) {
	query := `UPDATE blockers SET status = $2 WHERE id = $1 RETURNING ` + blockerColumns
	b, err := scanBlocker(r.db.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		r.logger.Error("Failed to update blocker", zap.String("blocker_id", id), zap.Error(err))
		return nil, notFound("update blocker", err)
	}
	r.logger.Info("Blocker updated", zap.String("blocker_id", id), zap.String("status", string(status)))
	return b, nil
}

// ListByProject returns the project's blockers newest first, optionally filtered by status.
func (r *BlockerRepository) ListByProject(ctx context.Context, projectID string, status *model.BlockerStatus) ([]model.Blocker, error) {
	query := `SELECT ` + blockerColumns + ` FROM blockers WHERE project_id = $1`
	args := []any{projectID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list blockers", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("list blockers: %w", err)
	}
	defer rows.Close()

	blockers := []model.Blocker{}
	for rows.Next() {
		b, err := scanBlocker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blocker: %w", err)
		}
		blockers = append(blockers, *b)
	}
	return blockers, rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const changeRequestColumns = `id, project_id, title, description, status, hours_impact, created_at`

type ChangeRequestRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChangeRequestRepository(db *pgxpool.Pool, logger *zap.Logger) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db, logger: logger}
}

func scanChangeRequest(row pgx.Row) (*model.ChangeRequest, error) {
	var (
		cr     model.ChangeRequest
		status string
	)
	if err := row.Scan(&cr.ID, &cr.ProjectID, &cr.Title, &cr.Description, &status, &cr.HoursImpact, &cr.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if cr.Status, err = model.ParseChangeRequestStatus(status); err != nil {
		return nil, invalidEnum("change_requests.status", err)
	}
	return &cr, nil
}

func (r *ChangeRequestRepository) Create(ctx context.Context, projectID, title string, description *string, status model.ChangeRequestStatus, hoursImpact float64) (*model.ChangeRequest, error) {
	r.logger.Debug("Creating change request", zap.String("project_id", projectID))

	query := `
		INSERT INTO change_requests (project_id, title, description, status, hours_impact)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + changeRequestColumns
	cr, err := scanChangeRequest(r.db.QueryRow(ctx, query, projectID, title, description, string(status), hoursImpact))
	if err != nil {
		r.logger.Error("Failed to create change request", zap.String("project_id", projectID), zap.Error(err))
		return nil, parentMissing("create change request", err)
	}

	r.logger.Info("Change request created", zap.String("change_request_id", cr.ID))
	return cr, nil
}

func (r *ChangeRequestRepository) SetStatus(ctx context.Context, id string, status model.ChangeRequestStatus) (*model.ChangeRequest, error) {
	query := `UPDATE change_requests SET status = $2 WHERE id = $1 RETURNING ` + changeRequestColumns
	cr, err := scanChangeRequest(r.db.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		r.logger.Error("Failed to update change request", zap.String("change_request_id", id), zap.Error(err))
		return nil, notFound("update change request", err)
	}
	r.logger.Info("Change request updated", zap.String("change_request_id", id), zap.String("status", string(status)))
	return cr, nil
}

func (r *ChangeRequestRepository) ListByProject(ctx context.Context, projectID string) ([]model.ChangeRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+changeRequestColumns+` FROM change_requests WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		r.logger.Error("Failed to list change requests", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	defer rows.Close()

	crs := []model.ChangeRequest{}
	for rows.Next() {
		cr, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change request: %w", err)
		}
		crs = append(crs, *cr)
	}
	return crs, rows.Err()
}

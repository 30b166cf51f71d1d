package repository

import (
	"context"
	"fmt"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ClientRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewClientRepository(db *pgxpool.Pool, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{db: db, logger: logger}
}

// Create stores a client contact. passwordHash must already be hashed.
func (r *ClientRepository) Create(ctx context.Context, projectID, name string, email *string, passwordHash string) (*model.ProjectClient, error) {
	r.logger.Debug("Creating project client", zap.String("project_id", projectID))

	var c model.ProjectClient
	err := r.db.QueryRow(ctx, `
		INSERT INTO project_clients (project_id, name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, name, email, created_at
	`, projectID, name, email, passwordHash).Scan(&c.ID, &c.ProjectID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create project client", zap.String("project_id", projectID), zap.Error(err))
		return nil, parentMissing("create project client", err)
	}

	r.logger.Info("Project client created", zap.String("client_id", c.ID))
	return &c, nil
}

func (r *ClientRepository) ListByProject(ctx context.Context, projectID string) ([]model.ProjectClient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, name, email, created_at
		FROM project_clients
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		r.logger.Error("Failed to list project clients", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("list project clients: %w", err)
	}
	defer rows.Close()

	clients := []model.ProjectClient{}
	for rows.Next() {
		var c model.ProjectClient
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM project_clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project client", zap.String("client_id", id), zap.Error(err))
		return fmt.Errorf("delete project client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete project client: %w", ErrNotFound)
	}
	r.logger.Info("Project client deleted", zap.String("client_id", id))
	return nil
}

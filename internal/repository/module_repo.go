package repository

import (
	"context"
	"fmt"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ModuleRepository struct {
	db     *pgxpool.Pool
	tasks  *TaskRepository
	logger *zap.Logger
}

func NewModuleRepository(db *pgxpool.Pool, tasks *TaskRepository, logger *zap.Logger) *ModuleRepository {
	return &ModuleRepository{db: db, tasks: tasks, logger: logger}
}

// Create appends a module through the create_module procedure so the
// position is assigned in the same statement.
func (r *ModuleRepository) Create(ctx context.Context, projectID, name string) (*model.Module, error) {
	r.logger.Debug("Creating module", zap.String("project_id", projectID), zap.String("name", name))

	m := model.Module{Tasks: []model.Task{}}
	err := r.db.QueryRow(ctx,
		`SELECT id, project_id, name, position FROM create_module($1, $2)`,
		projectID, name,
	).Scan(&m.ID, &m.ProjectID, &m.Name, &m.Position)
	if err != nil {
		r.logger.Error("Failed to create module", zap.String("project_id", projectID), zap.Error(err))
		return nil, parentMissing("create module", err)
	}

	r.logger.Info("Module created", zap.String("module_id", m.ID), zap.Int("position", m.Position))
	return &m, nil
}

// ListWithTasks returns the project's modules in position order, each with its tasks.
func (r *ModuleRepository) ListWithTasks(ctx context.Context, projectID string) ([]model.Module, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, name, position
		FROM modules
		WHERE project_id = $1
		ORDER BY position ASC, created_at ASC
	`, projectID)
	if err != nil {
		r.logger.Error("Failed to list modules", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	modules := []model.Module{}
	index := map[string]int{}
	for rows.Next() {
		m := model.Module{Tasks: []model.Task{}}
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Position); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		index[m.ID] = len(modules)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	if len(modules) == 0 {
		return modules, nil
	}

	tasks, err := r.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if i, ok := index[t.ModuleID]; ok {
			modules[i].Tasks = append(modules[i].Tasks, t)
		}
	}
	return modules, nil
}

// Delete removes the module; its tasks go with it.
func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete module", zap.String("module_id", id), zap.Error(err))
		return fmt.Errorf("delete module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete module: %w", ErrNotFound)
	}
	r.logger.Info("Module deleted", zap.String("module_id", id))
	return nil
}

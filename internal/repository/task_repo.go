package repository

import (
	"context"
	"fmt"
	"strings"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `id, module_id, project_id, title, status, pr_url, position, qa_checks, created_at`

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var (
		t      model.Task
		status string
		qa     []byte
	)
	if err := row.Scan(&t.ID, &t.ModuleID, &t.ProjectID, &t.Title, &status, &t.PRURL, &t.Position, &qa, &t.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.Status, err = model.ParseTaskStatus(status); err != nil {
		return nil, invalidEnum("tasks.status", err)
	}
	if t.QAChecks, err = decodeQAChecks(qa); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create adds a backlog task at position 0. The module must belong to
// req.ProjectID, otherwise ErrNotFound.
func (r *TaskRepository) Create(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	r.logger.Debug("Creating task", zap.String("module_id", req.ModuleID), zap.String("project_id", req.ProjectID))

	query := `
		INSERT INTO tasks (module_id, project_id, title, status, position)
		SELECT m.id, m.project_id, $3, 'backlog', 0
		FROM modules m
		WHERE m.id = $1 AND m.project_id = $2
		RETURNING ` + taskColumns
	t, err := scanTask(r.db.QueryRow(ctx, query, req.ModuleID, req.ProjectID, req.Title))
	if err != nil {
		r.logger.Error("Failed to create task", zap.String("module_id", req.ModuleID), zap.Error(err))
		return nil, parentMissing("create task", err)
	}

	r.logger.Info("Task created", zap.String("task_id", t.ID))
	return t, nil
}

// Patch writes only the fields present in p.
func (r *TaskRepository) Patch(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error) {
	sets := []string{}
	args := []any{id}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.QAChecks != nil {
		add("qa_checks", map[string]bool(*p.QAChecks))
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.PRURL != nil {
		// empty string clears the link
		var url *string
		if *p.PRURL != "" {
			url = p.PRURL
		}
		add("pr_url", url)
	}
	if len(sets) == 0 {
		return nil, model.Invalid("", "No valid fields to update")
	}

	r.logger.Debug("Patching task", zap.String("task_id", id), zap.Strings("fields", sets))

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + taskColumns
	t, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		r.logger.Error("Failed to patch task", zap.String("task_id", id), zap.Error(err))
		return nil, notFound("patch task", err)
	}

	r.logger.Info("Task updated", zap.String("task_id", id))
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.String("task_id", id), zap.Error(err))
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete task: %w", ErrNotFound)
	}
	r.logger.Info("Task deleted", zap.String("task_id", id))
	return nil
}

// ListByProject returns every task of the project in module then position order.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = $1
		ORDER BY module_id, position ASC, created_at ASC
	`, projectID)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

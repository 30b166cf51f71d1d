package repository

import (
	"context"
	"fmt"
	"time"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const projectColumns = `id, name, status, client_name, client_slug, start_date, target_end_date,
	budget_hours, used_hours, next_milestone, next_milestone_date, ai_summary,
	ai_summary_generated_at, created_at`

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func scanProject(row pgx.Row) (*model.Project, error) {
	var (
		p                          model.Project
		status                     string
		start, target, milestoneAt pgtype.Date
		summaryAt                  pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&status,
		&p.ClientName,
		&p.ClientSlug,
		&start,
		&target,
		&p.BudgetHours,
		&p.UsedHours,
		&p.NextMilestone,
		&milestoneAt,
		&p.AISummary,
		&summaryAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Status, err = model.ParseProjectStatus(status); err != nil {
		return nil, invalidEnum("projects.status", err)
	}
	p.StartDate = dateOut(start)
	p.TargetEndDate = dateOut(target)
	p.NextMilestoneDate = dateOut(milestoneAt)
	p.AISummaryAt = timeOut(summaryAt)
	return &p, nil
}

// Create inserts an active project. A duplicate slug yields ErrSlugTaken.
func (r *ProjectRepository) Create(ctx context.Context, req model.CreateProjectRequest, passwordHash *string) (string, error) {
	r.logger.Debug("Creating project", zap.String("client_slug", req.ClientSlug))

	var clientName *string
	if req.ClientName != "" {
		clientName = &req.ClientName
	}

	query := `
		INSERT INTO projects (name, client_name, client_slug, client_password, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id
	`
	var id string
	err := r.db.QueryRow(ctx, query, req.Name, clientName, req.ClientSlug, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "projects_client_slug_key") {
			r.logger.Info("Client slug already taken", zap.String("client_slug", req.ClientSlug))
			return "", ErrSlugTaken
		}
		r.logger.Error("Failed to create project", zap.String("client_slug", req.ClientSlug), zap.Error(err))
		return "", fmt.Errorf("create project: %w", err)
	}

	r.logger.Info("Project created", zap.String("project_id", id), zap.String("client_slug", req.ClientSlug))
	return id, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound("get project", err)
	}
	return p, nil
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_slug = $1`
	p, err := scanProject(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, notFound("get project by slug", err)
	}
	return p, nil
}

// GetClientProject returns the fields the public login page may show.
func (r *ProjectRepository) GetClientProject(ctx context.Context, slug string) (*model.ClientProject, error) {
	var p model.ClientProject
	err := r.db.QueryRow(ctx,
		`SELECT id, name, client_name FROM projects WHERE client_slug = $1`, slug,
	).Scan(&p.ID, &p.Name, &p.ClientName)
	if err != nil {
		return nil, notFound("get client project", err)
	}
	return &p, nil
}

// GetCredentials returns the project id and stored client password for slug.
func (r *ProjectRepository) GetCredentials(ctx context.Context, slug string) (string, *string, error) {
	var (
		id       string
		password *string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, client_password FROM projects WHERE client_slug = $1`, slug,
	).Scan(&id, &password)
	if err != nil {
		return "", nil, notFound("get client credentials", err)
	}
	return id, password, nil
}

func (r *ProjectRepository) SetPassword(ctx context.Context, id, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE projects SET client_password = $2 WHERE id = $1`, id, hash)
	if err != nil {
		r.logger.Error("Failed to set client password", zap.String("project_id", id), zap.Error(err))
		return fmt.Errorf("set client password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set client password: %w", ErrNotFound)
	}
	r.logger.Info("Client password updated", zap.String("project_id", id))
	return nil
}

// List returns every project, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]model.ProjectSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, client_name, client_slug, status
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.ProjectSummary{}
	for rows.Next() {
		var (
			p      model.ProjectSummary
			status string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientName, &p.ClientSlug, &status); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if p.Status, err = model.ParseProjectStatus(status); err != nil {
			return nil, invalidEnum("projects.status", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update overwrites the schedule and budget fields.
func (r *ProjectRepository) Update(ctx context.Context, req model.UpdateProjectRequest) (*model.Project, error) {
	r.logger.Debug("Updating project", zap.String("project_id", req.ID))

	query := `
		UPDATE projects SET
			start_date = $2,
			target_end_date = $3,
			budget_hours = $4,
			used_hours = $5,
			next_milestone = $6,
			next_milestone_date = $7
		WHERE id = $1
		RETURNING ` + projectColumns
	p, err := scanProject(r.db.QueryRow(ctx, query,
		req.ID,
		dateIn(req.StartDate),
		dateIn(req.TargetEndDate),
		req.BudgetHours,
		req.UsedHours,
		req.NextMilestone,
		dateIn(req.NextMilestoneDate),
	))
	if err != nil {
		r.logger.Error("Failed to update project", zap.String("project_id", req.ID), zap.Error(err))
		return nil, notFound("update project", err)
	}

	r.logger.Info("Project updated", zap.String("project_id", req.ID))
	return p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.String("project_id", id), zap.Error(err))
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete project: %w", ErrNotFound)
	}
	r.logger.Info("Project deleted", zap.String("project_id", id))
	return nil
}

// UpdateSummary overwrites the cached summary unconditionally. Last write wins.
func (r *ProjectRepository) UpdateSummary(ctx context.Context, id, summary string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE projects SET ai_summary = $2, ai_summary_generated_at = $3 WHERE id = $1`,
		id, summary, at,
	)
	if err != nil {
		r.logger.Error("Failed to store summary", zap.String("project_id", id), zap.Error(err))
		return fmt.Errorf("update summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update summary: %w", ErrNotFound)
	}
	r.logger.Debug("Summary stored", zap.String("project_id", id))
	return nil
}

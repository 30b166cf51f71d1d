package handler

import (
	"context"

	"missioncontrol/internal/model"
	"missioncontrol/internal/service/dashboard"
	"missioncontrol/internal/summary"
)

type ProjectStore interface {
	Create(ctx context.Context, req model.CreateProjectRequest, passwordHash *string) (string, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetClientProject(ctx context.Context, slug string) (*model.ClientProject, error)
	List(ctx context.Context) ([]model.ProjectSummary, error)
	Update(ctx context.Context, req model.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

type ModuleStore interface {
	Create(ctx context.Context, projectID, name string) (*model.Module, error)
	ListWithTasks(ctx context.Context, projectID string) ([]model.Module, error)
	Delete(ctx context.Context, id string) error
}

type TaskStore interface {
	Create(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error)
	Patch(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

type BlockerStore interface {
	Create(ctx context.Context, projectID, title string, waitingOn model.WaitingOn) (*model.Blocker, error)
	SetStatus(ctx context.Context, id string, status model.BlockerStatus) (*model.Blocker, error)
	ListByProject(ctx context.Context, projectID string, status *model.BlockerStatus) ([]model.Blocker, error)
}

type ChangeRequestStore interface {
	Create(ctx context.Context, projectID, title string, description *string, status model.ChangeRequestStatus, hoursImpact float64) (*model.ChangeRequest, error)
	SetStatus(ctx context.Context, id string, status model.ChangeRequestStatus) (*model.ChangeRequest, error)
	ListByProject(ctx context.Context, projectID string) ([]model.ChangeRequest, error)
}

type ClientStore interface {
	Create(ctx context.Context, projectID, name string, email *string, passwordHash string) (*model.ProjectClient, error)
	ListByProject(ctx context.Context, projectID string) ([]model.ProjectClient, error)
	Delete(ctx context.Context, id string) error
}

type EventStore interface {
	Insert(ctx context.Context, e model.Event) (*model.Event, error)
	ListRecent(ctx context.Context, projectID string, limit int) ([]model.Event, error)
}

type Authenticator interface {
	Login(ctx context.Context, slug, password string) (string, error)
}

type DashboardBuilder interface {
	ClientDashboard(ctx context.Context, slug, sessionProjectID string) (*dashboard.Payload, error)
}

type SummaryGetter interface {
	Get(ctx context.Context, projectID string) (*summary.Result, error)
}

// Package dashboard assembles the client dashboard payload.
package dashboard

import (
	"context"
	"errors"
	"time"

	"missioncontrol/internal/health"
	"missioncontrol/internal/model"
	"missioncontrol/internal/summary"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSessionMismatch means the client session belongs to another project.
var ErrSessionMismatch = errors.New("session does not match project")

type ProjectStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
}

type SummaryResolver interface {
	Resolve(ctx context.Context, p *model.Project) (*summary.Result, error)
}

type EventView struct {
	model.Event
	Link string `json:"link,omitempty"`
}

type ModuleView struct {
	model.Module
	Progress health.Progress `json:"progress"`
}

// Progress holds the figures derived from the schedule, budget and task board.
type Progress struct {
	Tasks                  health.Progress `json:"tasks"`
	BudgetPercent          *int            `json:"budget_percent"`
	DaysRemaining          *int            `json:"days_remaining"`
	TimelinePercent        *int            `json:"timeline_percent"`
	ApprovedChangeRequests int             `json:"approved_change_requests"`
	ApprovedHours          float64         `json:"approved_hours"`
}

type Payload struct {
	Project        *model.Project        `json:"project"`
	Events         []EventView           `json:"events"`
	Modules        []ModuleView          `json:"modules"`
	Metrics        health.Metrics        `json:"metrics"`
	Blockers       []model.Blocker       `json:"blockers"`
	ChangeRequests []model.ChangeRequest `json:"changeRequests"`
	Progress       Progress              `json:"progress"`
	Summary        *summary.Result       `json:"summary"`
}

type Service struct {
	projects       ProjectStore
	events         summary.EventStore
	modules        summary.ModuleStore
	blockers       summary.BlockerStore
	changeRequests summary.ChangeRequestStore
	summaries      SummaryResolver
	eventWindow    int
	now            func() time.Time
	logger         *zap.Logger
}

func NewService(
	projects ProjectStore,
	events summary.EventStore,
	modules summary.ModuleStore,
	blockers summary.BlockerStore,
	changeRequests summary.ChangeRequestStore,
	summaries SummaryResolver,
	eventWindow int,
	logger *zap.Logger,
) *Service {
	if eventWindow <= 0 {
		eventWindow = 10
	}
	return &Service{
		projects:       projects,
		events:         events,
		modules:        modules,
		blockers:       blockers,
		changeRequests: changeRequests,
		summaries:      summaries,
		eventWindow:    eventWindow,
		now:            time.Now,
		logger:         logger,
	}
}

// ClientDashboard builds the payload for slug if sessionProjectID owns it.
func (s *Service) ClientDashboard(ctx context.Context, slug, sessionProjectID string) (*Payload, error) {
	p, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if sessionProjectID == "" || p.ID != sessionProjectID {
		return nil, ErrSessionMismatch
	}

	var (
		events  []model.Event
		modules []model.Module
		open    []model.Blocker
		crs     []model.ChangeRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events, err = s.events.ListRecent(gctx, p.ID, s.eventWindow)
		return err
	})
	g.Go(func() (err error) {
		modules, err = s.modules.ListWithTasks(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		status := model.BlockerOpen
		open, err = s.blockers.ListByProject(gctx, p.ID, &status)
		return err
	})
	g.Go(func() (err error) {
		crs, err = s.changeRequests.ListByProject(gctx, p.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Payload{
		Project:        p,
		Events:         make([]EventView, 0, len(events)),
		Modules:        make([]ModuleView, 0, len(modules)),
		Blockers:       open,
		ChangeRequests: crs,
	}
	for _, e := range events {
		out.Events = append(out.Events, EventView{Event: e, Link: e.Link()})
	}

	var allTasks []model.Task
	for _, m := range modules {
		out.Modules = append(out.Modules, ModuleView{Module: m, Progress: health.ModuleProgress(m.Tasks)})
		allTasks = append(allTasks, m.Tasks...)
	}

	out.Metrics = health.Compute(events, allTasks)
	out.Progress = s.progress(p, allTasks, crs)

	res, err := s.summaries.Resolve(ctx, p)
	if err != nil {
		s.logger.Warn("Dashboard summary omitted", zap.String("project_id", p.ID), zap.Error(err))
	} else {
		out.Summary = res
	}
	return out, nil
}

func (s *Service) progress(p *model.Project, tasks []model.Task, crs []model.ChangeRequest) Progress {
	now := s.now()
	pr := Progress{
		Tasks:                  health.ModuleProgress(tasks),
		BudgetPercent:          health.BudgetPercent(p.UsedHours, p.BudgetHours),
		ApprovedChangeRequests: health.ApprovedCount(crs),
		ApprovedHours:          health.ApprovedHours(crs),
	}
	if p.TargetEndDate != nil {
		days := health.DaysRemaining(p.TargetEndDate.Time, now)
		pr.DaysRemaining = &days
		if p.StartDate != nil {
			pct := health.TimelinePercent(p.StartDate.Time, p.TargetEndDate.Time, now)
			pr.TimelinePercent = &pct
		}
	}
	return pr
}

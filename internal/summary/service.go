package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"missioncontrol/internal/model"
	"missioncontrol/pkg/metrics"

	"go.uber.org/zap"
)

// Generator turns a prompt into summary text.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type ProjectStore interface {
	GetByID(ctx context.Context, id string) (*model.Project, error)
	UpdateSummary(ctx context.Context, id, summary string, at time.Time) error
}

type EventStore interface {
	ListRecent(ctx context.Context, projectID string, limit int) ([]model.Event, error)
}

type ModuleStore interface {
	ListWithTasks(ctx context.Context, projectID string) ([]model.Module, error)
}

type BlockerStore interface {
	ListByProject(ctx context.Context, projectID string, status *model.BlockerStatus) ([]model.Blocker, error)
}

type ChangeRequestStore interface {
	ListByProject(ctx context.Context, projectID string) ([]model.ChangeRequest, error)
}

type Status string

const (
	StatusCached      Status = "cached"
	StatusGenerated   Status = "generated"
	StatusStale       Status = "stale"
	StatusUnavailable Status = "unavailable"
)

// Result is the summary panel payload.
type Result struct {
	Summary *string `json:"summary"`
	Cached  bool    `json:"cached"`
	Stale   bool    `json:"stale"`
	Status  Status  `json:"status"`
}

type Service struct {
	projects       ProjectStore
	events         EventStore
	modules        ModuleStore
	blockers       BlockerStore
	changeRequests ChangeRequestStore
	generator      Generator
	gate           Gate
	eventWindow    int
	now            func() time.Time
	logger         *zap.Logger
}

type Options struct {
	TTL         time.Duration
	EventWindow int
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(
	projects ProjectStore,
	events EventStore,
	modules ModuleStore,
	blockers BlockerStore,
	changeRequests ChangeRequestStore,
	generator Generator,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.EventWindow <= 0 {
		opts.EventWindow = 20
	}
	return &Service{
		projects:       projects,
		events:         events,
		modules:        modules,
		blockers:       blockers,
		changeRequests: changeRequests,
		generator:      generator,
		gate:           Gate{TTL: opts.TTL},
		eventWindow:    opts.EventWindow,
		now:            opts.Now,
		logger:         logger,
	}
}

// Get loads the project and resolves its summary. A missing project is repository.ErrNotFound.
func (s *Service) Get(ctx context.Context, projectID string) (*Result, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, p)
}

// Resolve serves the cached summary when fresh and regenerates it otherwise.
// Generation failures degrade to the previous summary or to unavailable.
func (s *Service) Resolve(ctx context.Context, p *model.Project) (*Result, error) {
	now := s.now()
	if s.gate.Fresh(p, now) {
		metrics.IncrementSummaryOutcome(string(StatusCached))
		return &Result{Summary: p.AISummary, Cached: true, Status: StatusCached}, nil
	}

	in, err := s.loadInput(ctx, p)
	if err != nil {
		return nil, err
	}
	prompt := BuildPrompt(in, now)

	text, err := s.generator.Generate(ctx, SystemPrompt, prompt)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = fmt.Errorf("empty summary text")
	}
	if err != nil {
		s.logger.Warn("Summary generation failed",
			zap.String("project_id", p.ID),
			zap.Error(err),
		)
		return s.fallback(p), nil
	}

	if err := s.projects.UpdateSummary(ctx, p.ID, text, now); err != nil {
		s.logger.Error("Failed to persist generated summary",
			zap.String("project_id", p.ID),
			zap.Error(err),
		)
	}

	metrics.IncrementSummaryOutcome(string(StatusGenerated))
	s.logger.Info("Summary generated", zap.String("project_id", p.ID), zap.Int("length", len(text)))
	return &Result{Summary: &text, Status: StatusGenerated}, nil
}

func (s *Service) fallback(p *model.Project) *Result {
	if p.AISummary != nil && *p.AISummary != "" {
		metrics.IncrementSummaryOutcome(string(StatusStale))
		return &Result{Summary: p.AISummary, Cached: true, Stale: true, Status: StatusStale}
	}
	metrics.IncrementSummaryOutcome(string(StatusUnavailable))
	return &Result{Status: StatusUnavailable}
}

func (s *Service) loadInput(ctx context.Context, p *model.Project) (PromptInput, error) {
	in := PromptInput{Project: p}
	var err error

	if in.Events, err = s.events.ListRecent(ctx, p.ID, s.eventWindow); err != nil {
		return in, fmt.Errorf("load summary events: %w", err)
	}
	if in.Modules, err = s.modules.ListWithTasks(ctx, p.ID); err != nil {
		return in, fmt.Errorf("load summary modules: %w", err)
	}
	open := model.BlockerOpen
	if in.Blockers, err = s.blockers.ListByProject(ctx, p.ID, &open); err != nil {
		return in, fmt.Errorf("load summary blockers: %w", err)
	}
	if in.ChangeRequests, err = s.changeRequests.ListByProject(ctx, p.ID); err != nil {
		return in, fmt.Errorf("load summary change requests: %w", err)
	}
	return in, nil
}

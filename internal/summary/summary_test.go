package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"missioncontrol/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

type projectStore struct {
	project  *model.Project
	getErr   error
	written  []string
	writeErr error
}

func (s *projectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.project, nil
}

func (s *projectStore) UpdateSummary(ctx context.Context, id, summary string, at time.Time) error {
	s.written = append(s.written, summary)
	return s.writeErr
}

type stores struct{}

func (stores) ListRecent(ctx context.Context, projectID string, limit int) ([]model.Event, error) {
	return []model.Event{
		{Provider: model.ProviderVercel, EventType: "deployment", Severity: model.SeveritySuccess, Title: "Deployed main", CreatedAt: now.Add(-time.Hour)},
		{Provider: model.ProviderSentry, EventType: "issue", Severity: model.SeverityError, Title: "TypeError in checkout", CreatedAt: now.Add(-2 * time.Hour)},
	}, nil
}

func (stores) ListWithTasks(ctx context.Context, projectID string) ([]model.Module, error) {
	return []model.Module{{Name: "Checkout", Tasks: []model.Task{
		{Status: model.TaskDeployed}, {Status: model.TaskBacklog}, {Status: model.TaskDeployed},
	}}}, nil
}

func (stores) ListByProject(ctx context.Context, projectID string, status *model.BlockerStatus) ([]model.Blocker, error) {
	return []model.Blocker{{Title: "Stripe keys", WaitingOn: model.WaitingOnClient, Status: model.BlockerOpen}}, nil
}

type crStore struct{}

func (crStore) ListByProject(ctx context.Context, projectID string) ([]model.ChangeRequest, error) {
	return []model.ChangeRequest{{Status: model.ChangeRequestApproved, HoursImpact: 6}}, nil
}

type generator struct {
	text   string
	err    error
	calls  int
	prompt string
}

func (g *generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	return g.text, g.err
}

func newService(ps *projectStore, gen *generator) *Service {
	return NewService(ps, stores{}, stores{}, stores{}, crStore{}, gen,
		Options{TTL: 30 * time.Minute, Now: func() time.Time { return now }}, zap.NewNop())
}

func cachedProject(age time.Duration) *model.Project {
	at := now.Add(-age)
	return &model.Project{ID: "p1", Name: "Storefront", Status: model.ProjectActive, AISummary: strp("All good."), AISummaryAt: &at}
}

func TestGate(t *testing.T) {
	g := Gate{TTL: 30 * time.Minute}
	assert.True(t, g.Fresh(cachedProject(29*time.Minute), now))
	assert.False(t, g.Fresh(cachedProject(31*time.Minute), now))
	assert.False(t, g.Fresh(cachedProject(30*time.Minute), now))
	assert.False(t, g.Fresh(&model.Project{AISummary: strp("x")}, now))
	assert.False(t, g.Fresh(nil, now))
}

func TestGetServesFreshCache(t *testing.T) {
	ps := &projectStore{project: cachedProject(29 * time.Minute)}
	gen := &generator{text: "new"}

	res, err := newService(ps, gen).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls)
	assert.True(t, res.Cached)
	assert.Equal(t, StatusCached, res.Status)
	assert.Equal(t, "All good.", *res.Summary)
	assert.Empty(t, ps.written)
}

func TestGetRegeneratesStaleCache(t *testing.T) {
	ps := &projectStore{project: cachedProject(31 * time.Minute)}
	gen := &generator{text: "  Checkout is on track.  "}

	res, err := newService(ps, gen).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.False(t, res.Cached)
	assert.Equal(t, StatusGenerated, res.Status)
	assert.Equal(t, "Checkout is on track.", *res.Summary)
	assert.Equal(t, []string{"Checkout is on track."}, ps.written)
}

func TestGetFallsBackToStaleSummary(t *testing.T) {
	ps := &projectStore{project: cachedProject(2 * time.Hour)}
	gen := &generator{err: errors.New("503 overloaded")}

	res, err := newService(ps, gen).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.True(t, res.Stale)
	assert.Equal(t, StatusStale, res.Status)
	assert.Equal(t, "All good.", *res.Summary)
	assert.Empty(t, ps.written, "failed generation must not overwrite")
}

func TestGetUnavailableWithoutPreviousSummary(t *testing.T) {
	ps := &projectStore{project: &model.Project{ID: "p1", Name: "Storefront"}}
	gen := &generator{text: "   "}

	res, err := newService(ps, gen).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, res.Summary)
	assert.False(t, res.Cached)
	assert.Equal(t, StatusUnavailable, res.Status)
}

func TestGetReturnsTextWhenPersistFails(t *testing.T) {
	ps := &projectStore{project: &model.Project{ID: "p1", Name: "Storefront"}, writeErr: errors.New("conn reset")}
	gen := &generator{text: "Fresh."}

	res, err := newService(ps, gen).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Fresh.", *res.Summary)
	assert.Equal(t, StatusGenerated, res.Status)
}

func TestGetPropagatesMissingProject(t *testing.T) {
	notFound := errors.New("not found")
	ps := &projectStore{getErr: notFound}

	_, err := newService(ps, &generator{}).Get(context.Background(), "p1")
	assert.ErrorIs(t, err, notFound)
}

func TestBuildPrompt(t *testing.T) {
	start, _ := model.ParseDate("2026-03-01")
	end, _ := model.ParseDate("2026-05-01")
	budget, used := 60.0, 45.0
	in := PromptInput{
		Project: &model.Project{
			Name:          "Storefront",
			ClientName:    strp("Acme"),
			Status:        model.ProjectActive,
			StartDate:     &start,
			TargetEndDate: &end,
			BudgetHours:   &budget,
			UsedHours:     &used,
			NextMilestone: strp("Beta launch"),
		},
	}
	in.Events, _ = stores{}.ListRecent(context.Background(), "", 0)
	in.Modules, _ = stores{}.ListWithTasks(context.Background(), "")
	in.Blockers, _ = stores{}.ListByProject(context.Background(), "", nil)
	in.ChangeRequests, _ = crStore{}.ListByProject(context.Background(), "")

	got := BuildPrompt(in, now)
	assert.Equal(t, got, BuildPrompt(in, now))

	for _, want := range []string{
		"Project: Storefront\nClient: Acme\nStatus: active\n",
		"Timeline: 2026-03-01 to 2026-05-01, 21 days remaining, 67% elapsed\n",
		"Budget: 45 of 60 hours used (75%)\n",
		"Next milestone: Beta launch\n",
		"Open blockers (1):\n- Stripe keys (waiting on client)\n",
		"Approved change requests: 1 (6 hours)\n",
		"Recent events (last 2):\nsentry - issue - error - TypeError in checkout\nvercel - deployment - success - Deployed main\n",
		"Modules and tasks:\nCheckout: 3 tasks (1 backlog, 2 deployed)\n",
	} {
		assert.Contains(t, got, want)
	}
	assert.True(t, strings.HasSuffix(got, "Write a 2-3 sentence summary of project health."))
}

func TestBuildPromptEmptyProject(t *testing.T) {
	got := BuildPrompt(PromptInput{Project: &model.Project{Name: "New", Status: model.ProjectPaused}}, now)
	assert.Contains(t, got, "Client: N/A\n")
	assert.Contains(t, got, "Timeline: not set\n")
	assert.Contains(t, got, "Budget: 0 hours used, no budget set\n")
	assert.Contains(t, got, "Open blockers: none\n")
	assert.Contains(t, got, "No recent events.\n")
	assert.Contains(t, got, "No modules or tasks yet.\n")
}

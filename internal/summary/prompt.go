package summary

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"missioncontrol/internal/health"
	"missioncontrol/internal/model"
)

const SystemPrompt = "You are a project health assistant for a software development agency. " +
	"Write a 2-3 sentence plain English summary of a client project's current health. " +
	"Be specific, use the actual data. Sound professional but human. No bullet points."

// PromptInput is everything the prompt is built from.
type PromptInput struct {
	Project        *model.Project
	Events         []model.Event
	Modules        []model.Module
	Blockers       []model.Blocker
	ChangeRequests []model.ChangeRequest
}

// BuildPrompt renders in a fixed section order. Equal input and now give an equal string.
func BuildPrompt(in PromptInput, now time.Time) string {
	p := in.Project
	var b strings.Builder

	clientName := "N/A"
	if p.ClientName != nil && *p.ClientName != "" {
		clientName = *p.ClientName
	}
	fmt.Fprintf(&b, "Project: %s\n", p.Name)
	fmt.Fprintf(&b, "Client: %s\n", clientName)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)

	writeTimeline(&b, p, now)
	writeBudget(&b, p)

	if p.NextMilestone != nil && *p.NextMilestone != "" {
		if p.NextMilestoneDate != nil {
			fmt.Fprintf(&b, "Next milestone: %s (%s)\n", *p.NextMilestone, p.NextMilestoneDate)
		} else {
			fmt.Fprintf(&b, "Next milestone: %s\n", *p.NextMilestone)
		}
	} else {
		b.WriteString("Next milestone: none\n")
	}

	open := make([]model.Blocker, 0, len(in.Blockers))
	for _, bl := range in.Blockers {
		if bl.Status == model.BlockerOpen {
			open = append(open, bl)
		}
	}
	if len(open) == 0 {
		b.WriteString("Open blockers: none\n")
	} else {
		fmt.Fprintf(&b, "Open blockers (%d):\n", len(open))
		for _, bl := range open {
			fmt.Fprintf(&b, "- %s (waiting on %s)\n", bl.Title, bl.WaitingOn)
		}
	}

	fmt.Fprintf(&b, "Approved change requests: %d (%s hours)\n",
		health.ApprovedCount(in.ChangeRequests), formatHours(health.ApprovedHours(in.ChangeRequests)))

	fmt.Fprintf(&b, "Recent events (last %d):\n", len(in.Events))
	if len(in.Events) == 0 {
		b.WriteString("No recent events.\n")
	}
	for _, e := range chronological(in.Events) {
		fmt.Fprintf(&b, "%s - %s - %s - %s\n", e.Provider, e.EventType, e.Severity, e.Title)
	}

	b.WriteString("Modules and tasks:\n")
	if len(in.Modules) == 0 {
		b.WriteString("No modules or tasks yet.\n")
	}
	for _, m := range in.Modules {
		fmt.Fprintf(&b, "%s: %d tasks (%s)\n", m.Name, len(m.Tasks), tally(m.Tasks))
	}

	b.WriteString("Write a 2-3 sentence summary of project health.")
	return b.String()
}

func writeTimeline(b *strings.Builder, p *model.Project, now time.Time) {
	switch {
	case p.StartDate != nil && p.TargetEndDate != nil:
		fmt.Fprintf(b, "Timeline: %s to %s, %d days remaining, %d%% elapsed\n",
			p.StartDate, p.TargetEndDate,
			health.DaysRemaining(p.TargetEndDate.Time, now),
			health.TimelinePercent(p.StartDate.Time, p.TargetEndDate.Time, now))
	case p.TargetEndDate != nil:
		fmt.Fprintf(b, "Timeline: target %s, %d days remaining\n",
			p.TargetEndDate, health.DaysRemaining(p.TargetEndDate.Time, now))
	default:
		b.WriteString("Timeline: not set\n")
	}
}

func writeBudget(b *strings.Builder, p *model.Project) {
	used := 0.0
	if p.UsedHours != nil {
		used = *p.UsedHours
	}
	pct := health.BudgetPercent(p.UsedHours, p.BudgetHours)
	if pct == nil {
		fmt.Fprintf(b, "Budget: %s hours used, no budget set\n", formatHours(used))
		return
	}
	fmt.Fprintf(b, "Budget: %s of %s hours used (%d%%)\n", formatHours(used), formatHours(*p.BudgetHours), *pct)
}

// chronological returns events oldest first without touching the input.
func chronological(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func tally(tasks []model.Task) string {
	if len(tasks) == 0 {
		return "no tasks"
	}
	counts := map[model.TaskStatus]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	parts := make([]string, 0, len(counts))
	for _, s := range model.TaskStatuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	return strings.Join(parts, ", ")
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// Package health derives the project health figures shown on the client
// dashboard. Everything here is pure.
package health

import (
	"math"
	"time"

	"missioncontrol/internal/model"
)

// Metrics is the health panel. Nil percentages mean there was nothing to measure.
type Metrics struct {
	ErrorCount    int      `json:"error_count"`
	UptimePercent *float64 `json:"uptime_percent"`
	QAPassRate    *int     `json:"qa_pass_rate"`
	DeployCount   int      `json:"deploy_count"`
}

// Compute aggregates events and tasks into Metrics.
func Compute(events []model.Event, tasks []model.Task) Metrics {
	var m Metrics

	var uptimeTotal, uptimeUp int
	for _, e := range events {
		if e.Severity == model.SeverityError {
			m.ErrorCount++
		}
		switch e.EventType {
		case model.EventTypeDeployment:
			m.DeployCount++
		case model.EventTypeUptime:
			uptimeTotal++
			if e.Severity == model.SeveritySuccess {
				uptimeUp++
			}
		}
	}
	if uptimeTotal > 0 {
		pct := math.Round(float64(uptimeUp)/float64(uptimeTotal)*1000) / 10
		m.UptimePercent = &pct
	}

	var checked, passed int
	for _, t := range tasks {
		if len(t.QAChecks) == 0 {
			continue
		}
		checked++
		if t.QAChecks.FullyPassed() {
			passed++
		}
	}
	if checked > 0 {
		rate := int(math.Round(float64(passed) / float64(checked) * 100))
		m.QAPassRate = &rate
	}

	return m
}

// BudgetPercent is used/budget as a rounded percentage. Nil without a positive budget.
func BudgetPercent(used, budget *float64) *int {
	if budget == nil || *budget <= 0 {
		return nil
	}
	var u float64
	if used != nil {
		u = *used
	}
	pct := int(math.Round(u / *budget * 100))
	return &pct
}

// DaysRemaining counts whole days left until target, rounding up, never below zero.
func DaysRemaining(target time.Time, now time.Time) int {
	days := math.Ceil(target.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// TimelinePercent is how much of [start, end] has elapsed at now, clamped to 0..100.
func TimelinePercent(start, end, now time.Time) int {
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	pct := math.Round(float64(now.Sub(start)) / float64(total) * 100)
	return int(math.Max(0, math.Min(100, pct)))
}

// Progress counts deployed tasks against all tasks.
type Progress struct {
	Deployed int `json:"deployed"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

func ModuleProgress(tasks []model.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == model.TaskDeployed {
			p.Deployed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Deployed) / float64(p.Total) * 100))
	}
	return p
}

// ApprovedHours sums hours_impact over approved change requests.
func ApprovedHours(crs []model.ChangeRequest) float64 {
	var sum float64
	for _, cr := range crs {
		if cr.Status == model.ChangeRequestApproved {
			sum += cr.HoursImpact
		}
	}
	return sum
}

func ApprovedCount(crs []model.ChangeRequest) int {
	n := 0
	for _, cr := range crs {
		if cr.Status == model.ChangeRequestApproved {
			n++
		}
	}
	return n
}

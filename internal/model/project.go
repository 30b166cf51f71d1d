package model

import "time"

// Project is a client engagement. ClientSlug is unique across projects.
type Project struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	ClientName        *string       `json:"client_name"`
	ClientSlug        string        `json:"client_slug"`
	Status            ProjectStatus `json:"status"`
	StartDate         *Date         `json:"start_date"`
	TargetEndDate     *Date         `json:"target_end_date"`
	BudgetHours       *float64      `json:"budget_hours"`
	UsedHours         *float64      `json:"used_hours"`
	NextMilestone     *string       `json:"next_milestone"`
	NextMilestoneDate *Date         `json:"next_milestone_date"`
	AISummary         *string       `json:"ai_summary"`
	AISummaryAt       *time.Time    `json:"ai_summary_generated_at"`
	CreatedAt         time.Time     `json:"created_at"`
}

// ProjectSummary is the row shape of the admin project list.
type ProjectSummary struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ClientName *string       `json:"client_name"`
	ClientSlug string        `json:"client_slug"`
	Status     ProjectStatus `json:"status"`
}

// ClientProject is what the public login page sees.
type ClientProject struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ClientName *string `json:"client_name"`
}

type CreateProjectRequest struct {
	Name           string `json:"name"`
	ClientName     string `json:"client_name"`
	ClientSlug     string `json:"client_slug"`
	ClientPassword string `json:"client_password"`
}

// UpdateProjectRequest carries the schedule and budget fields. Nil fields are cleared.
type UpdateProjectRequest struct {
	ID                string   `json:"id"`
	StartDate         *Date    `json:"start_date"`
	TargetEndDate     *Date    `json:"target_end_date"`
	BudgetHours       *float64 `json:"budget_hours"`
	UsedHours         *float64 `json:"used_hours"`
	NextMilestone     *string  `json:"next_milestone"`
	NextMilestoneDate *Date    `json:"next_milestone_date"`
}

package model

import (
	"strings"
	"time"
)

// Event is an integration signal recorded against a project. Events are append-only.
type Event struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Provider  Provider       `json:"provider"`
	EventType string         `json:"event_type"`
	Severity  Severity       `json:"severity"`
	Title     string         `json:"title"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

type CreateEventRequest struct {
	ProjectID string         `json:"project_id"`
	Provider  string         `json:"provider"`
	EventType string         `json:"event_type"`
	Severity  string         `json:"severity"`
	Title     string         `json:"title"`
	Metadata  map[string]any `json:"metadata"`
}

// Link picks the most specific URL in the metadata: url, issue_url, then repo_url.
func (e Event) Link() string {
	for _, key := range []string{"url", "issue_url", "repo_url"} {
		if s, ok := e.Metadata[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Event validates the request and returns the event to store.
func (req CreateEventRequest) Event() (Event, error) {
	projectID, err := ParseID("project_id", req.ProjectID)
	if err != nil {
		return Event{}, err
	}
	provider, err := ParseProvider(req.Provider)
	if err != nil {
		return Event{}, Invalid("provider", "must be github, sentry, vercel, or betteruptime")
	}
	severity, err := ParseSeverity(req.Severity)
	if err != nil {
		return Event{}, Invalid("severity", "must be success, error, warning, or info")
	}
	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		return Event{}, Invalid("event_type", "is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Event{}, Invalid("title", "is required")
	}
	return Event{
		ProjectID: projectID,
		Provider:  provider,
		EventType: eventType,
		Severity:  severity,
		Title:     title,
		Metadata:  req.Metadata,
	}, nil
}

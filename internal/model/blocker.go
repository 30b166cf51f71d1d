package model

import "time"

type Blocker struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"project_id"`
	Title     string        `json:"title"`
	WaitingOn WaitingOn     `json:"waiting_on"`
	Status    BlockerStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type CreateBlockerRequest struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	WaitingOn string `json:"waiting_on"`
}

// UpdateStatusRequest moves a blocker or change request to a new status.
type UpdateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

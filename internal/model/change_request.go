package model

import "time"

type ChangeRequest struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"project_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      ChangeRequestStatus `json:"status"`
	HoursImpact float64             `json:"hours_impact"`
	CreatedAt   time.Time           `json:"created_at"`
}

type CreateChangeRequestRequest struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Status      string   `json:"status"`
	HoursImpact *float64 `json:"hours_impact"`
}

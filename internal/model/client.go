package model

import "time"

// ProjectClient is a client-side contact for a project. The password never leaves the server.
type ProjectClient struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateClientRequest struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Password  string  `json:"password"`
}

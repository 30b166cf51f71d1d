package model

type Module struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	Tasks     []Task `json:"tasks"`
}

type CreateModuleRequest struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

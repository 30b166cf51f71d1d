package model

import "time"

type Task struct {
	ID        string     `json:"id"`
	ModuleID  string     `json:"module_id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	PRURL     *string    `json:"pr_url"`
	Position  int        `json:"position"`
	QAChecks  QAChecks   `json:"qa_checks"`
	CreatedAt time.Time  `json:"created_at"`
}

type CreateTaskRequest struct {
	ModuleID  string `json:"moduleId"`
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
}

// TaskPatch is a partial task update. Only non-nil fields are written.
type TaskPatch struct {
	QAChecks *QAChecks   `json:"qa_checks"`
	Status   *TaskStatus `json:"status"`
	PRURL    *string     `json:"pr_url"`
}

func (p TaskPatch) Empty() bool {
	return p.QAChecks == nil && p.Status == nil && p.PRURL == nil
}

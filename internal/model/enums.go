package model

import "fmt"

// UnknownValueError reports a string that is not a member of a closed enumeration.
type UnknownValueError struct {
	Enum  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Enum, e.Value)
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch v := ProjectStatus(s); v {
	case ProjectActive, ProjectPaused, ProjectCompleted:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "project status", Value: s}
}

type TaskStatus string

const (
	TaskBacklog  TaskStatus = "backlog"
	TaskInDev    TaskStatus = "in_dev"
	TaskInQA     TaskStatus = "in_qa"
	TaskApproved TaskStatus = "approved"
	TaskDeployed TaskStatus = "deployed"
	TaskFailed   TaskStatus = "failed"
)

// TaskStatuses lists every task status in board order.
var TaskStatuses = []TaskStatus{TaskBacklog, TaskInDev, TaskInQA, TaskApproved, TaskDeployed, TaskFailed}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch v := TaskStatus(s); v {
	case TaskBacklog, TaskInDev, TaskInQA, TaskApproved, TaskDeployed, TaskFailed:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "task status", Value: s}
}

// Label is the human readable name shown on the boards.
func (s TaskStatus) Label() string {
	switch s {
	case TaskBacklog:
		return "Backlog"
	case TaskInDev:
		return "In Development"
	case TaskInQA:
		return "In QA"
	case TaskApproved:
		return "Approved"
	case TaskDeployed:
		return "Deployed"
	case TaskFailed:
		return "Failed"
	}
	panic(fmt.Sprintf("unhandled task status %q", string(s)))
}

type WaitingOn string

const (
	WaitingOnClient WaitingOn = "client"
	WaitingOnTeam   WaitingOn = "team"
)

func ParseWaitingOn(s string) (WaitingOn, error) {
	switch v := WaitingOn(s); v {
	case WaitingOnClient, WaitingOnTeam:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "waiting_on", Value: s}
}

type BlockerStatus string

const (
	BlockerOpen     BlockerStatus = "open"
	BlockerResolved BlockerStatus = "resolved"
)

func ParseBlockerStatus(s string) (BlockerStatus, error) {
	switch v := BlockerStatus(s); v {
	case BlockerOpen, BlockerResolved:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "blocker status", Value: s}
}

type ChangeRequestStatus string

const (
	ChangeRequestPending  ChangeRequestStatus = "pending"
	ChangeRequestApproved ChangeRequestStatus = "approved"
	ChangeRequestRejected ChangeRequestStatus = "rejected"
)

func ParseChangeRequestStatus(s string) (ChangeRequestStatus, error) {
	switch v := ChangeRequestStatus(s); v {
	case ChangeRequestPending, ChangeRequestApproved, ChangeRequestRejected:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "change request status", Value: s}
}

type Provider string

const (
	ProviderGitHub       Provider = "github"
	ProviderSentry       Provider = "sentry"
	ProviderVercel       Provider = "vercel"
	ProviderBetterUptime Provider = "betteruptime"
)

func ParseProvider(s string) (Provider, error) {
	switch v := Provider(s); v {
	case ProviderGitHub, ProviderSentry, ProviderVercel, ProviderBetterUptime:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "provider", Value: s}
}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func ParseSeverity(s string) (Severity, error) {
	switch v := Severity(s); v {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return v, nil
	}
	return "", &UnknownValueError{Enum: "severity", Value: s}
}

// Well known event types written by the integrations.
const (
	EventTypeUptime     = "uptime"
	EventTypeDeployment = "deployment"
)

func (s ProjectStatus) Valid() bool {
	_, err := ParseProjectStatus(string(s))
	return err == nil
}

func (s TaskStatus) Valid() bool {
	_, err := ParseTaskStatus(string(s))
	return err == nil
}

func (w WaitingOn) Valid() bool {
	_, err := ParseWaitingOn(string(w))
	return err == nil
}

func (s BlockerStatus) Valid() bool {
	_, err := ParseBlockerStatus(string(s))
	return err == nil
}

func (s ChangeRequestStatus) Valid() bool {
	_, err := ParseChangeRequestStatus(string(s))
	return err == nil
}

func (p Provider) Valid() bool {
	_, err := ParseProvider(string(p))
	return err == nil
}

func (s Severity) Valid() bool {
	_, err := ParseSeverity(string(s))
	return err == nil
}

package models

import "time"

// Status is the lifecycle state of a task.
type Status string

// Priority orders tasks by urgency.
type Priority string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"

	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParseStatus maps a wire value to a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusDone:
		return Status(s), true
	}
	return "", false
}

// ParsePriority maps a wire value to a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Task belongs to exactly one user. UserID is set at creation and never
// reassigned. CreatedAt and UpdatedAt are server-assigned; DueDate is a
// calendar date (time component zero, UTC) or nil.
type Task struct {
	ID        int64
	UserID    int64
	Text      string
	Status    Status
	Priority  Priority
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

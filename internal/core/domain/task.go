package domain

import "time"

// Task represents a unit of work assigned to a user, optionally tied to a client.
type Task struct {
	TaskID     string    `json:"taskID"`
	CompanyID  string    `json:"companyID"` // Owning scope
	Title      string    `json:"title" validate:"required"`
	Details    string    `json:"details,omitempty"`
	PriorityID string    `json:"priorityID"` // FK -> Priority
	StatusID   string    `json:"statusID"`   // FK -> TaskStatus
	AssigneeID string    `json:"assigneeID"` // FK -> UserProfile
	ClientID   string    `json:"clientID"`   // FK -> Client, optional
	DueDate    time.Time `json:"dueDate"`
	AuditFields
}

// Priority is a reference record for task priorities, ordered by rank.
type Priority struct {
	PriorityID string `json:"priorityID"`
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
}

// TaskStatus is a reference record for task workflow states.
type TaskStatus struct {
	StatusID string `json:"statusID"`
	Name     string `json:"name"`
}

package project

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Project groups the files a customer submits for one design job.
type Project struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	Name       string    `gorm:"column:name" json:"name"`
	CustomerID string    `gorm:"column:customer_id;index" json:"customer_id"`
	Status     Status    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Project) TableName() string { return "projects" }

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentRemoved    AssignmentStatus = "removed"
)

// ActiveAssignmentStatuses grant a worker access to the project's files.
var ActiveAssignmentStatuses = []AssignmentStatus{AssignmentAssigned, AssignmentInProgress}

func (s AssignmentStatus) Active() bool {
	for _, active := range ActiveAssignmentStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// Assignment links a worker to a project. Rows are never deleted; access is
// revoked by moving the status out of the active set.
type Assignment struct {
	ID         string           `gorm:"column:id;primaryKey" json:"id"`
	ProjectID  string           `gorm:"column:project_id;index" json:"project_id"`
	WorkerID   string           `gorm:"column:worker_id;index" json:"worker_id"`
	AssignedBy string           `gorm:"column:assigned_by" json:"assigned_by"`
	Status     AssignmentStatus `gorm:"column:status" json:"status"`
	CreatedAt  time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Assignment) TableName() string { return "project_assignments" }

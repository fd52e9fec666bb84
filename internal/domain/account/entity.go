package account

import (
	"time"

	"cadportal/internal/domain/admission"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

// Customer is a portal user who owns projects. Tier comes from billing and is
// only read here.
type Customer struct {
	ID        string         `gorm:"column:id;primaryKey" json:"id"`
	Email     string         `gorm:"column:email;uniqueIndex" json:"email"`
	Tier      admission.Tier `gorm:"column:tier" json:"tier"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
)

// Worker is a designer who can be assigned to customer projects.
// A worker signs in with the same identity provider, so ID is their user id.
type Worker struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"id"`
	Email              string    `gorm:"column:email" json:"email"`
	Bio                string    `gorm:"column:bio" json:"bio,omitempty"`
	AvailabilityStatus string    `gorm:"column:availability_status" json:"availability_status"`
	MaxProjects        int       `gorm:"column:max_projects" json:"max_projects"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Worker) TableName() string { return "workers" }

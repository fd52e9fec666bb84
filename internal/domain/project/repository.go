package project

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Project, error)
	ListByWorker(ctx context.Context, workerID string) ([]*Project, error)

	CreateAssignment(ctx context.Context, a *Assignment) error
	HasActiveAssignment(ctx context.Context, projectID, workerID string) (bool, error)
	ListAssignments(ctx context.Context, projectID string) ([]*Assignment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string) ([]*Project, error) {
	var projects []*Project
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) ListByWorker(ctx context.Context, workerID string) ([]*Project, error) {
	var projects []*Project
	err := r.db.WithContext(ctx).
		Joins("JOIN project_assignments pa ON pa.project_id = projects.id").
		Where("pa.worker_id = ? AND pa.status IN ?", workerID, ActiveAssignmentStatuses).
		Distinct("projects.*").
		Order("projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) CreateAssignment(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) HasActiveAssignment(ctx context.Context, projectID, workerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Assignment{}).
		Where("project_id = ? AND worker_id = ? AND status IN ?", projectID, workerID, ActiveAssignmentStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListAssignments(ctx context.Context, projectID string) ([]*Assignment, error) {
	var out []*Assignment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

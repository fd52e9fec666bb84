package account

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, c *Customer) error
	GetWorker(ctx context.Context, id string) (*Worker, error)
	CreateWorker(ctx context.Context, w *Worker) error
	ListWorkers(ctx context.Context) ([]*Worker, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateCustomer(ctx context.Context, c *Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetWorker(ctx context.Context, id string) (*Worker, error) {
	var w Worker
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) CreateWorker(ctx context.Context, w *Worker) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) ListWorkers(ctx context.Context) ([]*Worker, error) {
	var workers []*Worker
	err := r.db.WithContext(ctx).Order("email ASC").Find(&workers).Error
	return workers, err
}

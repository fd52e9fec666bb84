package upload

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, rec *FileRecord) error
	GetByID(ctx context.Context, id string) (*FileRecord, error)
	ListByProject(ctx context.Context, projectID string) ([]*FileRecord, error)
	ListExpired(ctx context.Context, before time.Time, limit int) ([]*FileRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *FileRecord) error {
	err := r.db.WithContext(ctx).Create(rec).Error
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrFileIDCollision
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrFileIDCollision
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	var rec FileRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListByProject(ctx context.Context, projectID string) ([]*FileRecord, error) {
	var out []*FileRecord
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListExpired returns records whose soft-delete deadline is before the given
// instant, oldest deadline first.
func (r *repository) ListExpired(ctx context.Context, before time.Time, limit int) ([]*FileRecord, error) {
	var out []*FileRecord
	q := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

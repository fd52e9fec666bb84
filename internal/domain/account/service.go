package account

import (
	"context"
	"strings"
	"time"

	"cadportal/internal/domain/admission"
)

const defaultMaxProjects = 5

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile is what a signed-in user needs to know before uploading.
type Profile struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Role           Role           `json:"role"`
	Tier           admission.Tier `json:"tier,omitempty"`
	MaxUploadBytes int64          `json:"maxUploadBytes,omitempty"`
	RetentionDays  *int           `json:"retentionDays"`
}

func (s *Service) Profile(ctx context.Context, userID string, role Role) (*Profile, error) {
	switch role {
	case RoleWorker:
		w, err := s.repo.GetWorker(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Profile{ID: w.ID, Email: w.Email, Role: role}, nil
	case RoleAdmin:
		return &Profile{ID: userID, Role: role}, nil
	}

	c, err := s.repo.GetCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{ID: c.ID, Email: c.Email, Role: RoleCustomer, Tier: c.Tier}
	p.MaxUploadBytes, _ = admission.TierLimit(c.Tier)
	if c.Tier.HasRetentionLimit() {
		days := int(admission.FreeTierRetention / (24 * time.Hour))
		p.RetentionDays = &days
	}
	return p, nil
}

// TierOf returns the stored subscription tier of a customer.
func (s *Service) TierOf(ctx context.Context, customerID string) (admission.Tier, error) {
	c, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}
	return c.Tier, nil
}

func (s *Service) WorkerExists(ctx context.Context, workerID string) (bool, error) {
	_, err := s.repo.GetWorker(ctx, workerID)
	if err == ErrWorkerNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListWorkers(ctx context.Context) ([]*Worker, error) {
	return s.repo.ListWorkers(ctx)
}

type CreateCustomerRequest struct {
	ID    string `json:"id" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Tier  string `json:"tier" binding:"required,tier"`
}

func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	tier, ok := admission.ParseTier(req.Tier)
	if !ok {
		return nil, ErrInvalidTier
	}
	c := &Customer{
		ID:        req.ID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Tier:      tier,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type CreateWorkerRequest struct {
	ID          string `json:"id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Bio         string `json:"bio"`
	MaxProjects int    `json:"maxProjects" binding:"omitempty,min=1"`
}

func (s *Service) CreateWorker(ctx context.Context, req CreateWorkerRequest) (*Worker, error) {
	maxProjects := req.MaxProjects
	if maxProjects == 0 {
		maxProjects = defaultMaxProjects
	}
	w := &Worker{
		ID:                 req.ID,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Bio:                req.Bio,
		AvailabilityStatus: AvailabilityAvailable,
		MaxProjects:        maxProjects,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.repo.CreateWorker(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

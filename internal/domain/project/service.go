package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxNameLength = 200

// WorkerDirectory answers whether a worker account exists.
type WorkerDirectory interface {
	WorkerExists(ctx context.Context, workerID string) (bool, error)
}

type Service struct {
	repo    Repository
	workers WorkerDirectory
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, workers WorkerDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		workers: workers,
		logger:  logger.With(slog.String("component", "project_service")),
		now:     time.Now,
	}
}

func (s *Service) CreateProject(ctx context.Context, customerID, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	p := &Project{
		ID:         uuid.NewString(),
		Name:       name,
		CustomerID: customerID,
		Status:     StatusActive,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created", slog.String("project_id", p.ID), slog.String("customer_id", customerID))
	return p, nil
}

// ListProjects returns a customer's own projects, or for workers the projects
// they are actively assigned to.
func (s *Service) ListProjects(ctx context.Context, userID, role string) ([]*Project, error) {
	if role == "worker" {
		return s.repo.ListByWorker(ctx, userID)
	}
	return s.repo.ListByCustomer(ctx, userID)
}

func (s *Service) GetProject(ctx context.Context, projectID, userID, role string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if role == "admin" {
		return p, nil
	}

	ok, err := s.canAccess(ctx, p, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}
	return p, nil
}

// CanAccess reports whether userID owns the project or holds an active
// assignment on it.
func (s *Service) CanAccess(ctx context.Context, projectID, userID string) (bool, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return s.canAccess(ctx, p, userID)
}

func (s *Service) canAccess(ctx context.Context, p *Project, userID string) (bool, error) {
	if p.CustomerID == userID {
		return true, nil
	}
	return s.repo.HasActiveAssignment(ctx, p.ID, userID)
}

type AssignRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	WorkerID  string `json:"workerId" binding:"required"`
}

func (s *Service) AssignWorker(ctx context.Context, req AssignRequest, adminID string) (*Assignment, error) {
	if req.ProjectID == "" || req.WorkerID == "" {
		return nil, ErrInvalidAssignment
	}

	p, err := s.repo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusActive {
		return nil, ErrProjectNotActive
	}

	exists, err := s.workers.WorkerExists(ctx, req.WorkerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrWorkerNotFound
	}

	assigned, err := s.repo.HasActiveAssignment(ctx, p.ID, req.WorkerID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return nil, ErrAlreadyAssigned
	}

	a := &Assignment{
		ID:         uuid.NewString(),
		ProjectID:  p.ID,
		WorkerID:   req.WorkerID,
		AssignedBy: adminID,
		Status:     AssignmentAssigned,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info("worker assigned",
		slog.String("project_id", p.ID),
		slog.String("worker_id", req.WorkerID),
		slog.String("assigned_by", adminID),
	)
	return a, nil
}

func (s *Service) ListAssignments(ctx context.Context, projectID string) ([]*Assignment, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(ctx, projectID)
}

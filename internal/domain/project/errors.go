package project

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidName       = errors.New("project name must be 1-200 characters")
	ErrProjectNotActive  = errors.New("project is not active")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrAlreadyAssigned   = errors.New("worker is already assigned to this project")
	ErrInvalidAssignment = errors.New("project_id and worker_id are required")
)

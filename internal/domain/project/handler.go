package project

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cadportal/internal/middleware"
	"cadportal/internal/pkg/response"
	"cadportal/internal/pkg/validator"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger.With(slog.String("component", "project_handler"))}
}

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /projects. Only customers own projects.
func (h *Handler) Create(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	p, err := h.service.CreateProject(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.writeError(c, err, "Failed to create project")
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) List(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(c.Request.Context(), userID, role)
	if err != nil {
		h.writeError(c, err, "Failed to list projects")
		return
	}
	response.Success(c, http.StatusOK, projects)
}

func (h *Handler) Get(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	p, err := h.service.GetProject(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		h.writeError(c, err, "Failed to load project")
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Assign handles POST /admin/assignments.
func (h *Handler) Assign(c *gin.Context) {
	adminID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	a, err := h.service.AssignWorker(c.Request.Context(), req, adminID)
	if err != nil {
		h.writeError(c, err, "Failed to assign worker")
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.service.ListAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to list assignments")
		return
	}
	response.Success(c, http.StatusOK, assignments)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidAssignment):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrWorkerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Worker not found")
	case errors.Is(err, ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrAlreadyAssigned), errors.Is(err, ErrProjectNotActive):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		h.logger.Error(fallback, slog.Any("error", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

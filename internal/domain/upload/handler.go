package upload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cadportal/internal/domain/account"
	"cadportal/internal/domain/admission"
	"cadportal/internal/middleware"
	"cadportal/internal/pkg/response"
)

// TierSource looks up the stored tier of a customer when the client omits it.
type TierSource interface {
	TierOf(ctx context.Context, customerID string) (admission.Tier, error)
}

type Handler struct {
	service *Service
	tiers   TierSource
	logger  *slog.Logger
}

func NewHandler(service *Service, tiers TierSource, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		tiers:   tiers,
		logger:  logger.With(slog.String("component", "upload_handler")),
	}
}

type beginUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	Size        *int64 `json:"size" binding:"required"`
	ProjectID   string `json:"projectId" binding:"required"`
	UserID      string `json:"userId" binding:"required"`
	Tier        string `json:"tier"`
	ContentType string `json:"contentType"`
}

// BeginUpload handles POST /uploads.
func (h *Handler) BeginUpload(c *gin.Context) {
	sessionUser, _, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	var req beginUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Plain(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.UserID != sessionUser {
		response.Plain(c, http.StatusForbidden, "User does not match session")
		return
	}

	ctx := c.Request.Context()
	if err := h.service.AuthorizeProject(ctx, req.ProjectID, sessionUser); err != nil {
		if errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrProjectNotFound) {
			response.Plain(c, http.StatusForbidden, "Access denied")
			return
		}
		h.logger.Error("project access check failed", slog.String("project_id", req.ProjectID), slog.Any("error", err))
		response.Plain(c, http.StatusInternalServerError, "Failed to create upload")
		return
	}

	tier := admission.Tier(req.Tier)
	if req.Tier == "" {
		stored, err := h.tiers.TierOf(ctx, sessionUser)
		if errors.Is(err, account.ErrCustomerNotFound) {
			response.Plain(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		if err != nil {
			h.logger.Error("tier lookup failed", slog.String("user_id", sessionUser), slog.Any("error", err))
			response.Plain(c, http.StatusInternalServerError, "Failed to create upload")
			return
		}
		tier = stored
	}

	cred, err := h.service.BeginUpload(ctx, UploadRequest{
		ProjectID:   req.ProjectID,
		UserID:      req.UserID,
		Tier:        tier,
		Filename:    req.Filename,
		Size:        *req.Size,
		ContentType: req.ContentType,
	})
	if err != nil {
		if rej, ok := admission.AsRejection(err); ok {
			response.Plain(c, http.StatusBadRequest, rej.Message)
			return
		}
		h.logger.Error("failed to create upload",
			slog.String("project_id", req.ProjectID),
			slog.String("user_id", req.UserID),
			slog.Any("error", err),
		)
		response.Plain(c, http.StatusInternalServerError, "Failed to create upload")
		return
	}

	c.JSON(http.StatusOK, cred)
}

// Download handles GET /files/:id/download.
func (h *Handler) Download(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	link, err := h.service.GetDownload(c.Request.Context(), c.Param("id"), userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, link)
	case errors.Is(err, ErrFileNotFound):
		response.Plain(c, http.StatusNotFound, "File not found")
	case errors.Is(err, ErrAccessDenied):
		response.Plain(c, http.StatusForbidden, "Access denied")
	default:
		h.logger.Error("failed to generate download url", slog.String("file_id", c.Param("id")), slog.Any("error", err))
		response.Plain(c, http.StatusInternalServerError, "Failed to generate download URL")
	}
}

// ListProjectFiles handles GET /projects/:id/files.
func (h *Handler) ListProjectFiles(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	files, err := h.service.ListProjectFiles(c.Request.Context(), c.Param("id"), userID)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, files)
	case errors.Is(err, ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
	case errors.Is(err, ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		h.logger.Error("failed to list files", slog.String("project_id", c.Param("id")), slog.Any("error", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list files")
	}
}

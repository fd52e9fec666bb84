package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cadportal/internal/middleware"
	"cadportal/internal/pkg/response"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger.With(slog.String("component", "account_handler"))}
}

// Me returns the caller's profile, including the upload limit of their tier.
func (h *Handler) Me(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), userID, Role(role))
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) || errors.Is(err, ErrWorkerNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
			return
		}
		h.logger.Error("failed to load profile", slog.String("user_id", userID), slog.Any("error", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// ListWorkers is used by admins when choosing whom to assign.
func (h *Handler) ListWorkers(c *gin.Context) {
	workers, err := h.service.ListWorkers(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list workers", slog.Any("error", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list workers")
		return
	}
	response.Success(c, http.StatusOK, workers)
}

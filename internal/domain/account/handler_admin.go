package account

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cadportal/internal/pkg/response"
	"cadportal/internal/pkg/validator"
)

// CreateCustomer provisions the local account row for a customer known to
// the identity provider.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to create customer", slog.String("customer_id", req.ID), slog.Any("error", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create customer")
		return
	}
	response.Success(c, http.StatusCreated, customer)
}

func (h *Handler) CreateWorker(c *gin.Context) {
	var req CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	worker, err := h.service.CreateWorker(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to create worker", slog.String("worker_id", req.ID), slog.Any("error", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create worker")
		return
	}
	response.Success(c, http.StatusCreated, worker)
}

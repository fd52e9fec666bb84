package account

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	protected.GET("/account", h.Me)

	admin.GET("/workers", h.ListWorkers)
	admin.POST("/workers", h.CreateWorker)
	admin.POST("/customers", h.CreateCustomer)
}

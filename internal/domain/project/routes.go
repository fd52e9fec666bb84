package project

import (
	"github.com/gin-gonic/gin"

	"cadportal/internal/middleware"
)

func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	projects := protected.Group("/projects")
	{
		projects.GET("", h.List)
		projects.POST("", middleware.RequireRole("customer"), h.Create)
		projects.GET("/:id", h.Get)
	}

	admin.POST("/assignments", h.Assign)
	admin.GET("/projects/:id/assignments", h.ListAssignments)
}

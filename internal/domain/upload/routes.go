package upload

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/uploads", h.BeginUpload)
	protected.GET("/files/:id/download", h.Download)
	protected.GET("/projects/:id/files", h.ListProjectFiles)
}

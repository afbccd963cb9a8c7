package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {

	// --- Site Generation ---
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/generated", h.GenerateSite) // Build a website from a whiteboard design
		apiGroup.POST("/test", h.TestConnection)    // Frontend connectivity probe
	}

	// --- Simple Health Check ---
	router.GET("/health", h.Health)
}

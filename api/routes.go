package api

import (
	"net/http" // Import net/http

	handlers "proposal_ai_server/internal/api"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler) {

	// --- Notes form ---
	router.GET("/", h.Index)
	router.POST("/generate", h.GenerateForm) // Form post, redirects to the preview

	// --- Proposal Lifecycle ---
	// Group related proposal actions under /proposal
	proposalGroup := router.Group("/proposal")
	{
		proposalGroup.POST("/generate", h.GenerateProposal) // Generate a proposal from project notes
		proposalGroup.GET("/:id", h.GetProposal)
		proposalGroup.GET("/:id/status", h.GetStatus)
		proposalGroup.GET("/:id/preview", h.Preview)
		proposalGroup.GET("/:id/export", h.ExportHTML) // Standalone HTML download
		proposalGroup.GET("/:id/pdf", h.ExportPDF)
		proposalGroup.DELETE("/:id", h.ResetProposal)
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

}

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"whiteboard2web/internal/ai"
	aiutils "whiteboard2web/internal/ai/utils"
	"whiteboard2web/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	aiGenerator *ai.Generator
	outputDir   string // generated projects are written here when set
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(aiGen *ai.Generator, outputDir string) *APIHandler {
	return &APIHandler{
		aiGenerator: aiGen,
		outputDir:   outputDir,
	}
}

// --- Structs for API Requests/Responses ---

type GenerateRequest struct {
	DesignData json.RawMessage `json:"design_data"`
	UserPrompt string          `json:"user_prompt" binding:"required"`
}

type GenerateResponse struct {
	Success   bool                    `json:"success"`
	Code      *types.ProjectStructure `json:"code"`
	ProjectID string                  `json:"project_id,omitempty"`
}

// --- API Handlers ---

// POST /api/generated
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	design, err := types.ParseDesignData(req.DesignData)
	if err != nil {
		// A broken analyzer payload still gets a site built from the prompt alone.
		log.Printf("WARN: Ignoring design_data: %v", err)
		design = types.DesignData{}
	}

	log.Printf("Received generation request (%d bytes of design data)", len(req.DesignData))
	project := h.aiGenerator.GenerateSite(c.Request.Context(), design, req.UserPrompt)

	resp := GenerateResponse{Success: true, Code: project}
	if h.outputDir != "" {
		projectID := uuid.New().String()
		if _, err := aiutils.SaveProjectDisk(h.outputDir, projectID, project); err != nil {
			log.Printf("WARN: Failed to store project %s: %v", projectID, err)
		} else {
			resp.ProjectID = projectID
		}
	}

	if project.IsFallback() {
		log.Printf("Site generation fell back to template: %s", project.Notes)
	} else {
		log.Printf("Site generation successful: %d files", len(project.ProjectStructure))
	}
	c.JSON(http.StatusOK, resp)
}

// GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /api/test
func (h *APIHandler) TestConnection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "connected"})
}

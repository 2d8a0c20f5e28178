package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pv-pipeline/internal/api/models"
	"pv-pipeline/internal/data"
)

// ProjectsHandler lists project folders and their series configs.
type ProjectsHandler struct {
	root string
}

func NewProjectsHandler(root string) *ProjectsHandler {
	return &ProjectsHandler{root: root}
}

// ListProjects handles GET /api/v1/projects.
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := data.ListProjects(h.root)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "PROJECTS_ERROR", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

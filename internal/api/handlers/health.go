package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ServerID string
	Version  string
}

func NewHealthHandler(serverID, version string) *HealthHandler {
	return &HealthHandler{ServerID: serverID, Version: version}
}

type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	ServerID string `json:"server_id" example:"camview-1"`
	Version  string `json:"version" example:"1.0.0"`
}

// @Summary Health check
// @Description Check if the server is healthy and responsive
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		ServerID: h.ServerID,
		Version:  h.Version,
	})
}

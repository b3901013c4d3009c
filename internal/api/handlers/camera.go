package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"camview-go/internal/models"
	"camview-go/internal/services/camera"
)

// CameraHandler serves the read-only camera configuration API.
type CameraHandler struct {
	registry *camera.Registry
}

func NewCameraHandler(registry *camera.Registry) *CameraHandler {
	return &CameraHandler{registry: registry}
}

// ListCameras godoc
// @Summary List configured cameras
// @Description Get the camera list as configured at startup
// @Tags cameras
// @Produce json
// @Success 200 {array} models.CameraConfig
// @Router /api/cameras [get]
func (h *CameraHandler) ListCameras(c *gin.Context) {
	configs := h.registry.Configs()
	if configs == nil {
		// marshal an empty array, not null
		configs = []models.CameraConfig{}
	}
	c.JSON(http.StatusOK, configs)
}

// GetCameraStatus godoc
// @Summary Get camera status
// @Description Get one camera's connection state, frame counters and latched dimensions
// @Tags cameras
// @Produce json
// @Param camera_id path string true "Camera ID"
// @Success 200 {object} models.CameraStatusResponse
// @Failure 404 {object} map[string]string
// @Router /api/cameras/{camera_id}/status [get]
func (h *CameraHandler) GetCameraStatus(c *gin.Context) {
	status, err := h.registry.Status(c.Param("camera_id"))
	if err != nil {
		if errors.Is(err, camera.ErrCameraNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"camview-go/internal/logging"
	"camview-go/internal/models"
	"camview-go/internal/services/camera"
	"camview-go/internal/services/polygons"
)

// PolygonHandler persists user-drawn polygon regions per camera. The
// polygon payload is opaque: it is stored and returned verbatim. Frame
// dimensions in the GET response come from the camera's frame cache.
type PolygonHandler struct {
	store       *polygons.Store
	registry    *camera.Registry
	dimsTimeout time.Duration
}

func NewPolygonHandler(store *polygons.Store, registry *camera.Registry, dimsTimeout time.Duration) *PolygonHandler {
	return &PolygonHandler{
		store:       store,
		registry:    registry,
		dimsTimeout: dimsTimeout,
	}
}

// GetPolygons godoc
// @Summary Get polygons for a camera
// @Description Get the stored polygon regions plus the source frame dimensions
// @Tags polygons
// @Produce json
// @Param camera_id path string true "Camera ID"
// @Success 200 {object} models.PolygonsResponse
// @Failure 500 {object} map[string]string
// @Router /api/polygons/{camera_id} [get]
func (h *PolygonHandler) GetPolygons(c *gin.Context) {
	cameraID := c.Param("camera_id")

	data, err := h.store.Load(cameraID)
	if err != nil {
		logging.Error(c).Err(err).Str("camera_id", cameraID).Msg("Failed to load polygons")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// dimensions stay zero for unknown or never-connected cameras
	var width, height int
	if cache, ok := h.registry.Lookup(cameraID); ok {
		width, height = cache.WaitDimensions(c.Request.Context(), h.dimsTimeout)
	}

	c.JSON(http.StatusOK, models.PolygonsResponse{
		Polygons:        data,
		SourceFrameSize: models.FrameSize{Width: width, Height: height},
	})
}

// SavePolygons godoc
// @Summary Save polygons for a camera
// @Description Replace the stored polygon regions with the request body
// @Tags polygons
// @Accept json
// @Produce json
// @Param camera_id path string true "Camera ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/polygons/{camera_id} [post]
func (h *PolygonHandler) SavePolygons(c *gin.Context) {
	cameraID := c.Param("camera_id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "failed to read request body"})
		return
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "request body is not valid JSON"})
		return
	}

	if err := h.store.Save(cameraID, body); err != nil {
		logging.Error(c).Err(err).Str("camera_id", cameraID).Msg("Failed to save polygons")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Polygons saved for camera '%s'", cameraID),
	})
}

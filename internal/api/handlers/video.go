package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"camview-go/internal/models"
	"camview-go/internal/services/camera"
	"camview-go/internal/services/publisher/mjpeg"
)

// VideoHandler serves the video_feed endpoint: a single JPEG for
// snapshot-mode cameras, an infinite MJPEG stream for continuous-mode ones.
type VideoHandler struct {
	registry *camera.Registry
	mux      *mjpeg.Multiplexer
}

func NewVideoHandler(registry *camera.Registry, mux *mjpeg.Multiplexer) *VideoHandler {
	return &VideoHandler{
		registry: registry,
		mux:      mux,
	}
}

// VideoFeed godoc
// @Summary Get camera video feed
// @Description Returns a single JPEG for snapshot-mode cameras, or a multipart MJPEG stream for continuous-mode cameras
// @Tags video
// @Produce image/jpeg
// @Param camera_id path string true "Camera ID"
// @Success 200 {file} image/jpeg
// @Failure 404 {string} string "Camera not found / No frame available"
// @Failure 500 {string} string
// @Router /video_feed/{camera_id} [get]
func (h *VideoHandler) VideoFeed(c *gin.Context) {
	cameraID := c.Param("camera_id")

	reader, ok := h.registry.Reader(cameraID)
	if !ok {
		c.String(http.StatusNotFound, "Camera not found")
		return
	}

	if reader.Mode() == models.ModeContinuous {
		// the multiplexer owns the response from here until disconnect
		if err := h.mux.ServeMJPEG(c.Writer, c.Request, cameraID); err != nil {
			c.String(http.StatusNotFound, "Camera not found")
		}
		return
	}

	jpeg, err := h.mux.Snapshot(cameraID)
	switch {
	case err == nil:
		c.Data(http.StatusOK, "image/jpeg", jpeg)
	case errors.Is(err, camera.ErrCameraNotFound):
		c.String(http.StatusNotFound, "Camera not found")
	case errors.Is(err, mjpeg.ErrNoFrame):
		c.String(http.StatusNotFound, "No frame available")
	default:
		log.Error().Err(err).Str("camera_id", cameraID).Msg("Failed to encode snapshot")
		c.String(http.StatusInternalServerError, "Failed to encode frame")
	}
}

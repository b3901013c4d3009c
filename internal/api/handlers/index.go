package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// IndexHandler renders the camera wall page.
type IndexHandler struct {
	refreshInterval time.Duration
}

func NewIndexHandler(refreshInterval time.Duration) *IndexHandler {
	return &IndexHandler{refreshInterval: refreshInterval}
}

// @Summary Camera wall page
// @Description Render the camera viewer page; ?camera=<id> preselects a camera
// @Tags pages
// @Produce html
// @Success 200 {string} string
// @Router / [get]
func (h *IndexHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"InitialCamera":   c.Query("camera"),
		"RefreshInterval": h.refreshInterval.Milliseconds(),
	})
}

package api

import (
	"net/http"

	_ "camview-go/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "Camview API",
			"version":     s.config.Version,
			"description": "Multi-camera RTSP frame server: latest-frame snapshots, MJPEG streaming and polygon region persistence",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"index":      "/",
				"health":     "/health",
				"system":     "/system/stats",
				"video_feed": "/video_feed/{camera_id}",
				"cameras":    "/api/cameras",
				"status":     "/api/cameras/{camera_id}/status",
				"polygons":   "/api/polygons/{camera_id}",
			},
			"server_id": s.config.ServerID,
			"port":      s.config.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}

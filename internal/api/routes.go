package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.indexHandler.Index)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/system/stats", s.systemHandler.GetStats)

	s.router.GET("/video_feed/:camera_id", s.videoHandler.VideoFeed)

	api := s.router.Group("/api")
	{
		api.GET("/cameras", s.cameraHandler.ListCameras)
		api.GET("/cameras/:camera_id/status", s.cameraHandler.GetCameraStatus)
		api.GET("/polygons/:camera_id", s.polygonHandler.GetPolygons)
		api.POST("/polygons/:camera_id", s.polygonHandler.SavePolygons)
	}
}

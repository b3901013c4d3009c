package api

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"camview-go/internal/api/handlers"
	"camview-go/internal/api/middleware"
	"camview-go/internal/config"
	"camview-go/internal/services"
)

//go:embed templates/index.html
var templatesFS embed.FS

type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server

	indexHandler   *handlers.IndexHandler
	healthHandler  *handlers.HealthHandler
	systemHandler  *handlers.SystemHandler
	cameraHandler  *handlers.CameraHandler
	videoHandler   *handlers.VideoHandler
	polygonHandler *handlers.PolygonHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) (*Server, error) {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	s := &Server{
		config:         cfg,
		router:         router,
		indexHandler:   handlers.NewIndexHandler(cfg.SnapshotInterval),
		healthHandler:  handlers.NewHealthHandler(cfg.ServerID, cfg.Version),
		systemHandler:  handlers.NewSystemHandler(cfg.ServerID),
		cameraHandler:  handlers.NewCameraHandler(container.Registry),
		videoHandler:   handlers.NewVideoHandler(container.Registry, container.Multiplexer),
		polygonHandler: handlers.NewPolygonHandler(container.Polygons, container.Registry, cfg.DimensionsTimeout),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
	s.router.Use(middleware.CORS())
}

func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

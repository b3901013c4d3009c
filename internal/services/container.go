package services

import (
	"context"

	"camview-go/internal/config"
	"camview-go/internal/services/camera"
	"camview-go/internal/services/encoder"
	"camview-go/internal/services/events"
	"camview-go/internal/services/polygons"
	"camview-go/internal/services/publisher/mjpeg"
	"camview-go/internal/services/streamcapture"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config      *config.Config
	Events      *events.Service
	Registry    *camera.Registry
	Multiplexer *mjpeg.Multiplexer
	Polygons    *polygons.Store
}

// NewServiceContainer wires configuration through the registry, encoder and
// multiplexer and starts the per-camera readers.
func NewServiceContainer(ctx context.Context, cfg *config.Config) (*ServiceContainer, error) {
	eventsSvc := events.NewService(cfg)

	cameras := config.LoadCameras(cfg.CamerasConfig)
	capture := streamcapture.NewService(cfg)
	registry := camera.NewRegistry(cfg, cameras, capture, eventsSvc)
	registry.Start(ctx)

	enc := encoder.NewService(cfg.JPEGQuality)
	mux := mjpeg.NewMultiplexer(registry, enc, cfg.StreamFrameInterval)

	store, err := polygons.NewStore(cfg.PolygonsDir)
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Config:      cfg,
		Events:      eventsSvc,
		Registry:    registry,
		Multiplexer: mux,
		Polygons:    store,
	}, nil
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.Registry != nil {
		if err := sc.Registry.Shutdown(ctx); err != nil {
			return err
		}
	}

	if sc.Events != nil {
		return sc.Events.Shutdown(ctx)
	}

	return nil
}

package camera

import (
	"context"
	"errors"
	"sync"

	"camview-go/internal/config"
	"camview-go/internal/logging"
	"camview-go/internal/models"
	"camview-go/internal/services/streamcapture"
)

// ErrCameraNotFound is returned for camera ids outside the configured set.
// It is an expected, user-visible outcome, not a fault.
var ErrCameraNotFound = errors.New("camera not found")

// Registry maps camera ids to their reader + cache pair. It is built once
// at startup from configuration and never resized afterwards.
type Registry struct {
	cfg     *config.Config
	configs []models.CameraConfig
	readers map[string]*Reader

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry builds one Reader per configured camera. Nothing is started
// yet; call Start to launch the reader goroutines.
func NewRegistry(cfg *config.Config, cameras []models.CameraConfig, opener streamcapture.Opener, events EventSink) *Registry {
	base := logging.NewServiceLogger(cfg, "camera")

	readers := make(map[string]*Reader, len(cameras))
	configs := make([]models.CameraConfig, 0, len(cameras))
	for _, cam := range cameras {
		if _, exists := readers[cam.ID]; exists {
			base.Warn().Str("camera_id", cam.ID).Msg("Duplicate camera id in config, keeping first entry")
			continue
		}

		mode := cam.Mode
		if mode == "" {
			mode = cfg.CaptureMode
		}
		if !mode.IsValid() {
			mode = models.ModeSnapshot
		}

		readers[cam.ID] = NewReader(cam, ReaderConfig{
			Mode:               mode,
			ReconnectInterval:  cfg.ReconnectInterval,
			ReadYield:          cfg.ReadYield,
			SnapshotInterval:   cfg.SnapshotInterval,
			SnapshotSkipFrames: cfg.SnapshotSkipFrames,
		}, opener, events, logging.WithCamera(base, cam.ID))
		configs = append(configs, cam)
	}

	return &Registry{
		cfg:     cfg,
		configs: configs,
		readers: readers,
	}
}

// Start launches one goroutine per camera. Each reader supervises itself;
// the registry only tracks them for shutdown.
func (reg *Registry) Start(ctx context.Context) {
	ctx, reg.cancel = context.WithCancel(ctx)

	for _, reader := range reg.readers {
		reg.wg.Add(1)
		go func(r *Reader) {
			defer reg.wg.Done()
			r.Run(ctx)
		}(reader)
	}
}

// Shutdown cancels all readers and waits for them, bounded by ctx.
func (reg *Registry) Shutdown(ctx context.Context) error {
	if reg.cancel != nil {
		reg.cancel()
	}

	done := make(chan struct{})
	go func() {
		reg.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lookup returns the cache for a camera id.
func (reg *Registry) Lookup(cameraID string) (*FrameCache, bool) {
	reader, ok := reg.readers[cameraID]
	if !ok {
		return nil, false
	}
	return reader.cache, true
}

// Reader returns the reader for a camera id.
func (reg *Registry) Reader(cameraID string) (*Reader, bool) {
	reader, ok := reg.readers[cameraID]
	return reader, ok
}

// Configs returns the configured camera list in config order.
func (reg *Registry) Configs() []models.CameraConfig {
	return reg.configs
}

// Status reports one camera's reader state for the status API.
func (reg *Registry) Status(cameraID string) (models.CameraStatusResponse, error) {
	reader, ok := reg.readers[cameraID]
	if !ok {
		return models.CameraStatusResponse{}, ErrCameraNotFound
	}

	width, height := reader.cache.Dimensions()
	frameCount, lastFrameTime := reader.cache.Stats()

	return models.CameraStatusResponse{
		CameraID:      reader.cam.ID,
		RTSPUrl:       reader.cam.RTSPURL,
		Mode:          reader.cfg.Mode,
		State:         reader.State().String(),
		FrameCount:    frameCount,
		LastFrameTime: lastFrameTime,
		Width:         width,
		Height:        height,
	}, nil
}

package camera

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"camview-go/internal/models"
	"camview-go/internal/services/streamcapture"
)

// EventSink receives camera lifecycle events. A nil sink is valid and
// drops every event.
type EventSink interface {
	PublishCameraEvent(event models.CameraEvent)
}

// ReaderConfig carries the capture policy for one reader.
type ReaderConfig struct {
	Mode               models.CaptureMode
	ReconnectInterval  time.Duration
	ReadYield          time.Duration
	SnapshotInterval   time.Duration
	SnapshotSkipFrames int
}

// Reader owns the capture connection for one camera and keeps its
// FrameCache current. It runs as a single long-lived goroutine; a failure
// on one camera never reaches another camera or the HTTP layer.
type Reader struct {
	cam    models.CameraConfig
	cfg    ReaderConfig
	opener streamcapture.Opener
	cache  *FrameCache
	events EventSink
	logger zerolog.Logger

	state      int32 // models.ConnectionState
	refreshing int32 // snapshot in-flight guard
}

func NewReader(cam models.CameraConfig, cfg ReaderConfig, opener streamcapture.Opener, events EventSink, logger zerolog.Logger) *Reader {
	return &Reader{
		cam:    cam,
		cfg:    cfg,
		opener: opener,
		cache:  NewFrameCache(),
		events: events,
		logger: logger,
	}
}

func (r *Reader) Cache() *FrameCache { return r.cache }

func (r *Reader) Config() models.CameraConfig { return r.cam }

func (r *Reader) Mode() models.CaptureMode { return r.cfg.Mode }

func (r *Reader) State() models.ConnectionState {
	return models.ConnectionState(atomic.LoadInt32(&r.state))
}

func (r *Reader) setState(s models.ConnectionState) {
	atomic.StoreInt32(&r.state, int32(s))
}

// Run blocks until ctx is cancelled. It never returns an error: every
// connection or decode failure is converted into a retry on the mode's
// cadence.
func (r *Reader) Run(ctx context.Context) {
	r.logger.Info().Str("mode", r.cfg.Mode.String()).Str("url", r.cam.RTSPURL).Msg("Camera reader starting")

	switch r.cfg.Mode {
	case models.ModeContinuous:
		r.runContinuous(ctx)
	default:
		r.runSnapshot(ctx)
	}

	r.setState(models.StateDisconnected)
	r.logger.Info().Msg("Camera reader stopped")
}

func (r *Reader) runContinuous(ctx context.Context) {
	for ctx.Err() == nil {
		src, err := r.openWithRetry(ctx)
		if err != nil {
			// only on context cancellation; retry itself is unbounded
			return
		}

		r.setState(models.StateReading)
		r.publishEvent("connected", "")

		err = r.readLoop(ctx, src)
		src.Close()
		r.setState(models.StateDisconnected)

		if ctx.Err() != nil {
			return
		}

		r.logger.Warn().Err(err).Dur("backoff", r.cfg.ReconnectInterval).Msg("Stream lost, reconnecting after backoff")
		r.publishEvent("disconnected", err.Error())

		if !sleepCtx(ctx, r.cfg.ReconnectInterval) {
			return
		}
	}
}

// openWithRetry keeps attempting to open the source on a fixed delay until
// it succeeds or ctx is cancelled.
func (r *Reader) openWithRetry(ctx context.Context) (streamcapture.Source, error) {
	r.setState(models.StateConnecting)
	return retry.DoWithData(
		func() (streamcapture.Source, error) {
			return r.opener.Open(ctx, r.cam.RTSPURL)
		},
		retry.Context(ctx),
		retry.Attempts(0), // unlimited
		retry.Delay(r.cfg.ReconnectInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn().Uint("attempt", n+1).Err(err).Msg("Failed to open stream, will retry")
		}),
	)
}

// readLoop pulls frames as fast as the source delivers, with a small yield
// between reads so the loop doesn't pin a core. Returns the read error that
// broke the connection, or nil on cancellation.
func (r *Reader) readLoop(ctx context.Context, src streamcapture.Source) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := src.Read()
		if err != nil {
			return err
		}
		r.cache.Write(frame)

		if !sleepCtx(ctx, r.cfg.ReadYield) {
			return nil
		}
	}
}

func (r *Reader) runSnapshot(ctx context.Context) {
	// one refresh up front so the cache fills without waiting a full interval
	r.Refresh(ctx)

	ticker := time.NewTicker(r.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh performs one snapshot cycle: open a fresh connection, discard the
// initially buffered frames, read exactly one and close. A refresh arriving
// while another is in flight is a no-op, so a slow camera never accumulates
// connection churn. Returns false if the refresh was skipped.
func (r *Reader) Refresh(ctx context.Context) bool {
	if !atomic.CompareAndSwapInt32(&r.refreshing, 0, 1) {
		r.logger.Debug().Msg("Snapshot refresh already in flight, skipping")
		return false
	}
	defer atomic.StoreInt32(&r.refreshing, 0)

	r.setState(models.StateConnecting)
	defer r.setState(models.StateDisconnected)

	src, err := r.opener.Open(ctx, r.cam.RTSPURL)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Snapshot refresh failed to open stream")
		return true
	}
	defer src.Close()

	r.setState(models.StateReading)

	// flush decoder/network buffering so the read below is current
	for i := 0; i < r.cfg.SnapshotSkipFrames; i++ {
		if err := src.Grab(); err != nil {
			r.logger.Warn().Err(err).Int("skipped", i).Msg("Snapshot refresh failed while flushing buffered frames")
			return true
		}
	}

	frame, err := src.Read()
	if err != nil {
		r.logger.Warn().Err(err).Msg("Snapshot refresh failed to read frame")
		return true
	}

	r.cache.Write(frame)
	r.logger.Info().Int("width", frame.Width).Int("height", frame.Height).Msg("Snapshot refreshed")
	r.publishEvent("snapshot_refreshed", "")
	return true
}

func (r *Reader) publishEvent(eventType, detail string) {
	if r.events == nil {
		return
	}
	r.events.PublishCameraEvent(models.CameraEvent{
		CameraID:  r.cam.ID,
		Type:      eventType,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}

// sleepCtx sleeps for d unless ctx is cancelled first. Reports whether the
// full sleep completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

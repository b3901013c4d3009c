package mjpeg

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"camview-go/internal/models"
	"camview-go/internal/services/camera"
)

const boundary = "frame"

// ErrNoFrame is returned when a known camera has not delivered a frame yet.
// Like camera.ErrCameraNotFound it is an expected outcome, not a fault.
var ErrNoFrame = errors.New("no frame available yet")

// Encoder turns a cached raw frame into JPEG bytes.
type Encoder interface {
	EncodeJPEG(frame *models.Frame) ([]byte, error)
}

// CacheLookup resolves a camera id to its frame cache.
type CacheLookup interface {
	Lookup(cameraID string) (*camera.FrameCache, bool)
}

// Multiplexer serves one frame cache to any number of concurrent HTTP
// viewers. Every viewer runs its own pacing loop against the shared cache,
// so a slow client stalls only itself, never the reader or other viewers.
type Multiplexer struct {
	caches        CacheLookup
	encoder       Encoder
	frameInterval time.Duration
}

func NewMultiplexer(caches CacheLookup, encoder Encoder, frameInterval time.Duration) *Multiplexer {
	if frameInterval <= 0 {
		frameInterval = 30 * time.Millisecond
	}
	return &Multiplexer{
		caches:        caches,
		encoder:       encoder,
		frameInterval: frameInterval,
	}
}

// Snapshot encodes the camera's current cached frame once.
func (m *Multiplexer) Snapshot(cameraID string) ([]byte, error) {
	cache, ok := m.caches.Lookup(cameraID)
	if !ok {
		return nil, camera.ErrCameraNotFound
	}

	frame, ok := cache.Read()
	if !ok {
		return nil, ErrNoFrame
	}

	return m.encoder.EncodeJPEG(frame)
}

// ServeMJPEG streams the camera's cache as multipart/x-mixed-replace until
// the client disconnects. Cycles where the cache is still empty emit
// nothing and keep the connection open; a write failure ends only this
// viewer's loop.
func (m *Multiplexer) ServeMJPEG(w http.ResponseWriter, r *http.Request, cameraID string) error {
	cache, ok := m.caches.Lookup(cameraID)
	if !ok {
		return camera.ErrCameraNotFound
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	viewerID := uuid.NewString()
	viewerLog := log.With().Str("camera_id", cameraID).Str("viewer", viewerID).Logger()
	viewerLog.Info().Msg("MJPEG viewer connected")

	ctx := r.Context()
	ticker := time.NewTicker(m.frameInterval)
	defer ticker.Stop()

	parts := 0
	for {
		select {
		case <-ctx.Done():
			viewerLog.Info().Int("parts", parts).Msg("MJPEG viewer disconnected")
			return nil
		case <-ticker.C:
			frame, ok := cache.Read()
			if !ok {
				continue
			}

			jpeg, err := m.encoder.EncodeJPEG(frame)
			if err != nil {
				viewerLog.Error().Err(err).Msg("Failed to encode frame for viewer")
				continue
			}

			if err := writePart(w, jpeg); err != nil {
				viewerLog.Info().Int("parts", parts).Err(err).Msg("MJPEG viewer write failed, closing")
				return nil
			}
			flusher.Flush()
			parts++
		}
	}
}

func writePart(w io.Writer, jpeg []byte) error {
	if _, err := io.WriteString(w, "--"+boundary+"\r\nContent-Type: image/jpeg\r\n\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

package camera

import (
	"context"
	"sync"
	"time"

	"camview-go/internal/models"
)

const dimensionsPollStep = 100 * time.Millisecond

// FrameCache holds the most recent frame from one camera. Exactly one
// reader goroutine writes it; any number of consumers read it. Frames are
// immutable after publish, so the lock is held only across the pointer
// swap, never across I/O or encoding.
type FrameCache struct {
	mu     sync.RWMutex
	frame  *models.Frame
	width  int
	height int

	frameCount    int64
	lastFrameTime time.Time
}

func NewFrameCache() *FrameCache {
	return &FrameCache{}
}

// Write publishes a new frame. Dimensions are latched from the first frame
// and never reset, including across reconnects.
func (fc *FrameCache) Write(frame *models.Frame) {
	fc.mu.Lock()
	fc.frame = frame
	if fc.width == 0 {
		fc.width = frame.Width
		fc.height = frame.Height
	}
	fc.frameCount++
	fc.lastFrameTime = frame.Timestamp
	fc.mu.Unlock()
}

// Read returns the current frame, or (nil, false) when the camera has not
// delivered one yet. An empty cache is an expected state, not an error.
// The returned frame must not be mutated.
func (fc *FrameCache) Read() (*models.Frame, bool) {
	fc.mu.RLock()
	frame := fc.frame
	fc.mu.RUnlock()
	return frame, frame != nil
}

// Dimensions returns the latched source dimensions, zero until known.
func (fc *FrameCache) Dimensions() (width, height int) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.width, fc.height
}

// WaitDimensions polls for latched dimensions up to the given timeout.
// It returns zeros if the camera never connects in time.
func (fc *FrameCache) WaitDimensions(ctx context.Context, timeout time.Duration) (width, height int) {
	deadline := time.Now().Add(timeout)
	for {
		width, height = fc.Dimensions()
		if width > 0 || time.Now().After(deadline) {
			return width, height
		}
		select {
		case <-ctx.Done():
			return fc.Dimensions()
		case <-time.After(dimensionsPollStep):
		}
	}
}

// Stats reports the write counters for the status API.
func (fc *FrameCache) Stats() (frameCount int64, lastFrameTime time.Time) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.frameCount, fc.lastFrameTime
}

package camera

import (
	"context"
	"errors"
	"sync"

	"camview-go/internal/models"
	"camview-go/internal/services/streamcapture"
)

var errMockClosed = errors.New("mock source exhausted")

// mockSource replays a scripted frame sequence, then fails every read.
type mockSource struct {
	mu     sync.Mutex
	frames []*models.Frame
	grabs  int
	reads  int
	closed bool
}

func (m *mockSource) Read() (*models.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if len(m.frames) == 0 {
		return nil, errMockClosed
	}
	frame := m.frames[0]
	m.frames = m.frames[1:]
	return frame, nil
}

func (m *mockSource) Grab() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grabs++
	return nil
}

func (m *mockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// mockOpener hands out sources from a factory and counts open cycles.
type mockOpener struct {
	mu      sync.Mutex
	opens   int
	sources []*mockSource
	factory func(attempt int) (streamcapture.Source, error)

	// when set, Open blocks until the channel is closed
	gate chan struct{}
}

func (m *mockOpener) Open(ctx context.Context, url string) (streamcapture.Source, error) {
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	attempt := m.opens
	m.opens++
	m.mu.Unlock()

	src, err := m.factory(attempt)
	if err != nil {
		return nil, err
	}
	if ms, ok := src.(*mockSource); ok {
		m.mu.Lock()
		m.sources = append(m.sources, ms)
		m.mu.Unlock()
	}
	return src, nil
}

func (m *mockOpener) openCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

package streamcapture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"camview-go/internal/config"
	"camview-go/internal/models"
)

// ErrRead is returned when the source cannot deliver a frame. Callers treat
// it like a connection loss: release the source and reopen on their cadence.
var ErrRead = errors.New("streamcapture: read failed")

// Source is one open capture connection. It is owned by exactly one reader
// goroutine and is never shared.
type Source interface {
	// Read decodes the next frame. A failed read or an empty frame returns
	// an error wrapping ErrRead.
	Read() (*models.Frame, error)
	// Grab pulls and discards one buffered frame without decoding it.
	Grab() error
	Close() error
}

// Opener opens capture connections. The gocv implementation talks RTSP
// through OpenCV's FFmpeg backend; tests substitute scripted sources.
type Opener interface {
	Open(ctx context.Context, url string) (Source, error)
}

// Service opens gocv-backed capture sources
type Service struct {
	cfg *config.Config
}

// NewService creates a new stream capture service and configures the FFmpeg
// backend once for the process.
func NewService(cfg *config.Config) *Service {
	s := &Service{cfg: cfg}
	s.configureFFmpegOptions()
	return s
}

// Open opens an RTSP source. The context bounds only the open attempt;
// reads afterwards are paced by the caller.
func (s *Service) Open(ctx context.Context, url string) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug().Str("url", url).Msg("Opening RTSP stream")

	cap, err := gocv.OpenVideoCaptureWithAPI(url, gocv.VideoCaptureFFmpeg)
	if err != nil {
		return nil, fmt.Errorf("failed to open RTSP stream %s: %w", url, err)
	}

	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("video capture is not opened for %s", url)
	}

	// Minimal buffer so reads track the live edge of the stream
	cap.Set(gocv.VideoCaptureBufferSize, 1)

	log.Info().
		Str("url", url).
		Float64("fps", cap.Get(gocv.VideoCaptureFPS)).
		Float64("width", cap.Get(gocv.VideoCaptureFrameWidth)).
		Float64("height", cap.Get(gocv.VideoCaptureFrameHeight)).
		Msg("RTSP stream opened")

	return &gocvSource{cap: cap, img: gocv.NewMat()}, nil
}

type gocvSource struct {
	cap *gocv.VideoCapture
	img gocv.Mat
	seq int64
}

func (g *gocvSource) Read() (*models.Frame, error) {
	if ok := g.cap.Read(&g.img); !ok {
		return nil, fmt.Errorf("%w: capture returned no frame", ErrRead)
	}
	if g.img.Empty() {
		return nil, fmt.Errorf("%w: capture returned empty frame", ErrRead)
	}

	g.seq++
	return &models.Frame{
		Data:      g.img.ToBytes(),
		Width:     g.img.Cols(),
		Height:    g.img.Rows(),
		Timestamp: time.Now(),
		Seq:       g.seq,
	}, nil
}

func (g *gocvSource) Grab() error {
	// gocv's Grab reports nothing; a dead connection surfaces on Read
	g.cap.Grab(1)
	return nil
}

func (g *gocvSource) Close() error {
	g.img.Close()
	return g.cap.Close()
}

// configureFFmpegOptions sets the FFmpeg capture options OpenCV reads from
// the environment. Quiet loglevel replaces the original's stderr juggling;
// the rest keeps RTSP over TCP with low-latency buffering.
func (s *Service) configureFFmpegOptions() {
	ffmpegOptions := []string{
		"rtsp_transport;" + s.cfg.RTSPTransport,
		"buffer_size;2097152",
		"max_delay;500000",
		"stimeout;5000000",
		"rw_timeout;5000000",
		"fflags;nobuffer",
		"flags;low_delay",
		"allowed_media_types;video",
	}

	opts := strings.Join(ffmpegOptions, "|")
	os.Setenv("OPENCV_FFMPEG_CAPTURE_OPTIONS", opts)
	if os.Getenv("OPENCV_FFMPEG_LOGLEVEL") == "" {
		os.Setenv("OPENCV_FFMPEG_LOGLEVEL", "-8") // AV_LOG_QUIET
	}

	log.Debug().Str("ffmpeg_options", opts).Msg("FFmpeg capture options configured")
}

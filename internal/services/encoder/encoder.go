package encoder

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"camview-go/internal/models"
)

// ErrEmptyFrame is returned for nil or zero-size frames. Encoding never
// degrades to an empty payload.
var ErrEmptyFrame = errors.New("encoder: empty frame")

// Service converts cached raw frames to JPEG on demand. Stateless; safe
// for concurrent use from any number of viewer goroutines.
type Service struct {
	quality int
}

func NewService(quality int) *Service {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Service{quality: quality}
}

// EncodeJPEG encodes one BGR24 frame to JPEG bytes.
func (s *Service) EncodeJPEG(frame *models.Frame) ([]byte, error) {
	if frame == nil || len(frame.Data) == 0 || frame.Width <= 0 || frame.Height <= 0 {
		return nil, ErrEmptyFrame
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mat from frame data: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, s.quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	defer buf.Close()

	b := buf.GetBytes()
	jpegCopy := make([]byte, len(b))
	copy(jpegCopy, b)
	return jpegCopy, nil
}

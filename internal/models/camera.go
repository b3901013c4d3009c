package models

import (
	"encoding/json"
	"time"
)

// CaptureMode selects how a camera's reader acquires frames.
type CaptureMode string

const (
	// ModeContinuous holds one open connection and reads as fast as the
	// source delivers, with a small yield between reads.
	ModeContinuous CaptureMode = "continuous"
	// ModeSnapshot opens a fresh connection on a long interval, reads a
	// single frame and closes. No connection is held between refreshes.
	ModeSnapshot CaptureMode = "snapshot"
)

// String returns the string representation of CaptureMode
func (m CaptureMode) String() string {
	return string(m)
}

// IsValid checks if the capture mode is a known mode
func (m CaptureMode) IsValid() bool {
	switch m {
	case ModeContinuous, ModeSnapshot:
		return true
	default:
		return false
	}
}

// ConnectionState represents the reader's connection to its source.
// Transient, never persisted.
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateReading
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReading:
		return "reading"
	default:
		return "unknown"
	}
}

// CameraConfig is one entry of the camera list file. ID is the stable
// routing key; Mode is optional and falls back to the process default.
type CameraConfig struct {
	ID      string      `json:"id"`
	RTSPURL string      `json:"rtsp_url"`
	Mode    CaptureMode `json:"mode,omitempty"`
}

// Frame is one decoded raster image. Frames are immutable after publish:
// the reader always allocates a fresh Frame and consumers never mutate one.
type Frame struct {
	Data      []byte // BGR24, Width*Height*3 bytes
	Width     int
	Height    int
	Timestamp time.Time
	Seq       int64
}

// CameraStatusResponse for the per-camera status API
type CameraStatusResponse struct {
	CameraID      string      `json:"camera_id"`
	RTSPUrl       string      `json:"rtsp_url"`
	Mode          CaptureMode `json:"mode"`
	State         string      `json:"state"`
	FrameCount    int64       `json:"frame_count"`
	LastFrameTime time.Time   `json:"last_frame_time"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
}

// FrameSize reports the latched source dimensions; zero until the first
// frame is decoded.
type FrameSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PolygonsResponse for GET /api/polygons/{camera_id}
type PolygonsResponse struct {
	Polygons        json.RawMessage `json:"polygons"`
	SourceFrameSize FrameSize       `json:"source_frame_size"`
}

// CameraEvent is published over NATS on reader lifecycle transitions
type CameraEvent struct {
	CameraID  string    `json:"camera_id"`
	Type      string    `json:"type"` // connected, disconnected, snapshot_refreshed
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

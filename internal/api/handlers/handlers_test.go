package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camview-go/internal/config"
	"camview-go/internal/models"
	"camview-go/internal/services/camera"
	"camview-go/internal/services/polygons"
	"camview-go/internal/services/publisher/mjpeg"
	"camview-go/internal/services/streamcapture"
)

// stdlibEncoder produces real, decodable JPEGs from BGR frames without
// OpenCV, so handler tests can verify the full response path.
type stdlibEncoder struct{}

func (stdlibEncoder) EncodeJPEG(frame *models.Frame) ([]byte, error) {
	if frame == nil || len(frame.Data) != frame.Width*frame.Height*3 {
		return nil, fmt.Errorf("malformed frame")
	}

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for i := 0; i < frame.Width*frame.Height; i++ {
		img.Pix[i*4+0] = frame.Data[i*3+2]
		img.Pix[i*4+1] = frame.Data[i*3+1]
		img.Pix[i*4+2] = frame.Data[i*3+0]
		img.Pix[i*4+3] = 0xff
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type scriptedSource struct {
	mu     sync.Mutex
	frames []*models.Frame
}

func (s *scriptedSource) Read() (*models.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, errors.New("stream lost")
	}
	frame := s.frames[0]
	s.frames = s.frames[1:]
	return frame, nil
}

func (s *scriptedSource) Grab() error { return nil }
func (s *scriptedSource) Close() error { return nil }

type scriptedOpener struct {
	mu      sync.Mutex
	opens   int
	factory func(attempt int) (streamcapture.Source, error)
}

func (o *scriptedOpener) Open(ctx context.Context, url string) (streamcapture.Source, error) {
	o.mu.Lock()
	attempt := o.opens
	o.opens++
	o.mu.Unlock()
	return o.factory(attempt)
}

func blackFrame(width, height int) *models.Frame {
	return &models.Frame{
		Data:      make([]byte, width*height*3),
		Width:     width,
		Height:    height,
		Timestamp: time.Now(),
		Seq:       1,
	}
}

func testEnv(t *testing.T, cameras []models.CameraConfig, opener streamcapture.Opener) (*gin.Engine, *camera.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServerID:           "test",
		CaptureMode:        models.ModeSnapshot,
		ReconnectInterval:  5 * time.Millisecond,
		ReadYield:          time.Millisecond,
		SnapshotInterval:   time.Hour,
		SnapshotSkipFrames: 2,
		DimensionsTimeout:  100 * time.Millisecond,
	}

	reg := camera.NewRegistry(cfg, cameras, opener, nil)
	mux := mjpeg.NewMultiplexer(reg, stdlibEncoder{}, 5*time.Millisecond)
	store, err := polygons.NewStore(t.TempDir())
	require.NoError(t, err)

	router := gin.New()
	videoHandler := NewVideoHandler(reg, mux)
	cameraHandler := NewCameraHandler(reg)
	polygonHandler := NewPolygonHandler(store, reg, cfg.DimensionsTimeout)

	router.GET("/video_feed/:camera_id", videoHandler.VideoFeed)
	router.GET("/api/cameras", cameraHandler.ListCameras)
	router.GET("/api/cameras/:camera_id/status", cameraHandler.GetCameraStatus)
	router.GET("/api/polygons/:camera_id", polygonHandler.GetPolygons)
	router.POST("/api/polygons/:camera_id", polygonHandler.SavePolygons)

	return router, reg
}

func waitForFrame(t *testing.T, reg *camera.Registry, cameraID string) {
	t.Helper()
	cache, ok := reg.Lookup(cameraID)
	require.True(t, ok)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := cache.Read(); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("camera never cached a frame")
}

func TestVideoFeedSnapshotScenario(t *testing.T) {
	// one 640x480 black frame, then the source fails permanently
	opener := &scriptedOpener{factory: func(attempt int) (streamcapture.Source, error) {
		if attempt == 0 {
			return &scriptedSource{frames: []*models.Frame{blackFrame(640, 480)}}, nil
		}
		return nil, errors.New("connection refused")
	}}

	router, reg := testEnv(t, []models.CameraConfig{{ID: "cam1", RTSPURL: "rtsp://x"}}, opener)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)
	waitForFrame(t, reg, "cam1")

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/video_feed/cam1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

		img, err := jpeg.Decode(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 640, img.Bounds().Dx())
		assert.Equal(t, 480, img.Bounds().Dy())
	}
}

func TestVideoFeedUnknownCamera(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		return nil, errors.New("connection refused")
	}}
	router, _ := testEnv(t, []models.CameraConfig{{ID: "cam1", RTSPURL: "rtsp://x"}}, opener)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/video_feed/cam99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Camera not found", w.Body.String())
}

func TestVideoFeedNoFrameYet(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		return nil, errors.New("connection refused")
	}}
	router, _ := testEnv(t, []models.CameraConfig{{ID: "cam1", RTSPURL: "rtsp://x"}}, opener)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/video_feed/cam1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No frame available", w.Body.String())
}

func TestVideoFeedContinuousStreamsMultipart(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		frames := make([]*models.Frame, 0, 100)
		for i := 0; i < 100; i++ {
			frames = append(frames, blackFrame(32, 24))
		}
		return &scriptedSource{frames: frames}, nil
	}}

	router, reg := testEnv(t, []models.CameraConfig{
		{ID: "cam1", RTSPURL: "rtsp://x", Mode: models.ModeContinuous},
	}, opener)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)
	waitForFrame(t, reg, "cam1")

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer reqCancel()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/video_feed/cam1", nil).WithContext(reqCtx))

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "--frame\r\nContent-Type: image/jpeg\r\n\r\n")
}

func TestListCameras(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		return nil, errors.New("connection refused")
	}}
	router, _ := testEnv(t, []models.CameraConfig{
		{ID: "cam1", RTSPURL: "rtsp://x"},
		{ID: "cam2", RTSPURL: "rtsp://y"},
	}, opener)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cameras", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var cameras []models.CameraConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cameras))
	require.Len(t, cameras, 2)
	assert.Equal(t, "cam1", cameras[0].ID)
	assert.Equal(t, "rtsp://x", cameras[0].RTSPURL)
}

func TestListCamerasEmptyConfig(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		return nil, errors.New("unused")
	}}
	router, _ := testEnv(t, nil, opener)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cameras", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestPolygonsRoundTrip(t *testing.T) {
	opener := &scriptedOpener{factory: func(attempt int) (streamcapture.Source, error) {
		if attempt == 0 {
			return &scriptedSource{frames: []*models.Frame{blackFrame(640, 480)}}, nil
		}
		return nil, errors.New("connection refused")
	}}

	router, reg := testEnv(t, []models.CameraConfig{{ID: "cam1", RTSPURL: "rtsp://x"}}, opener)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)
	waitForFrame(t, reg, "cam1")

	// before any file exists: empty array plus the camera's dimensions
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/polygons/cam1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"polygons": [], "source_frame_size": {"width": 640, "height": 480}}`, w.Body.String())

	// save, then read back verbatim
	payload := `[{"points":[[0,0],[1,1]]}]`
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/polygons/cam1", bytes.NewBufferString(payload)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/polygons/cam1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Polygons        json.RawMessage  `json:"polygons"`
		SourceFrameSize models.FrameSize `json:"source_frame_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, payload, string(resp.Polygons))
	assert.Equal(t, 640, resp.SourceFrameSize.Width)
}

func TestPolygonsUnknownCameraZeroDimensions(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		return nil, errors.New("connection refused")
	}}
	router, _ := testEnv(t, []models.CameraConfig{{ID: "cam1", RTSPURL: "rtsp://x"}}, opener)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/polygons/cam99", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"polygons": [], "source_frame_size": {"width": 0, "height": 0}}`, w.Body.String())
}

func TestPolygonsRejectInvalidJSON(t *testing.T) {
	opener := &scriptedOpener{factory: func(int) (streamcapture.Source, error) {
		return nil, errors.New("unused")
	}}
	router, _ := testEnv(t, nil, opener)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/polygons/cam1", bytes.NewBufferString("{not json")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCameraStatus(t *testing.T) {
	opener := &scriptedOpener{factory: func(attempt int) (streamcapture.Source, error) {
		if attempt == 0 {
			return &scriptedSource{frames: []*models.Frame{blackFrame(640, 480)}}, nil
		}
		return nil, errors.New("connection refused")
	}}

	router, reg := testEnv(t, []models.CameraConfig{{ID: "cam1", RTSPURL: "rtsp://x"}}, opener)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.Start(ctx)
	waitForFrame(t, reg, "cam1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cameras/cam1/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status models.CameraStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "cam1", status.CameraID)
	assert.Equal(t, 640, status.Width)
	assert.GreaterOrEqual(t, status.FrameCount, int64(1))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cameras/cam99/status", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

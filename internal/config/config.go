package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"camview-go/internal/models"
)

type Config struct {
	// Application
	Version     string
	Environment string
	ServerID    string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Camera list (JSON array of {id, rtsp_url[, mode]})
	CamerasConfig string

	// Capture
	CaptureMode        models.CaptureMode // process default; per-camera mode overrides
	ReconnectInterval  time.Duration      // fixed delay before reopening after failure
	ReadYield          time.Duration      // inter-read sleep in continuous mode
	SnapshotInterval   time.Duration      // refresh cadence in snapshot mode
	SnapshotSkipFrames int                // buffered frames discarded before the real read
	RTSPTransport      string

	// Serving
	StreamFrameInterval time.Duration // per-viewer pacing for MJPEG streams
	JPEGQuality         int
	DimensionsTimeout   time.Duration // bounded wait for latched dimensions

	// Polygon persistence
	PolygonsDir string

	// NATS camera lifecycle events
	EventsEnabled      bool
	EventsSubject      string
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Swagger Configuration
	SwaggerHost string
	SwaggerPort int

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerID:    getEnv("SERVER_ID", "camview-1"),
		Port:        getEnvInt("PORT", 5000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Camera list
		CamerasConfig: getEnv("CAMERAS_CONFIG", "config.json"),

		// Capture
		CaptureMode:        models.CaptureMode(getEnv("CAPTURE_MODE", string(models.ModeSnapshot))),
		ReconnectInterval:  getEnvDuration("RECONNECT_INTERVAL", 5*time.Second),
		ReadYield:          getEnvDuration("READ_YIELD", 10*time.Millisecond),
		SnapshotInterval:   getEnvDuration("SNAPSHOT_INTERVAL", 3600*time.Second),
		SnapshotSkipFrames: getEnvInt("SNAPSHOT_SKIP_FRAMES", 10),
		RTSPTransport:      getEnv("RTSP_TRANSPORT", "tcp"),

		// Serving
		StreamFrameInterval: getEnvDuration("STREAM_FRAME_INTERVAL", 30*time.Millisecond),
		JPEGQuality:         getEnvInt("JPEG_QUALITY", 90),
		DimensionsTimeout:   getEnvDuration("DIMENSIONS_TIMEOUT", 5*time.Second),

		// Polygon persistence
		PolygonsDir: getEnv("POLYGONS_DIR", "polygons_data"),

		// NATS camera lifecycle events
		EventsEnabled:      getEnvBool("EVENTS_ENABLED", false),
		EventsSubject:      getEnv("CAMERA_EVENTS_SUBJECT", "camera.events"),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Swagger Configuration
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost"),
		SwaggerPort: getEnvInt("SWAGGER_PORT", 5000),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// LoadCameras reads the camera list file. A missing or malformed file is
// logged and degrades to zero cameras; it never fails process start.
func LoadCameras(path string) []models.CameraConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to read camera config, starting with zero cameras")
		return nil
	}

	var cameras []models.CameraConfig
	if err := json.Unmarshal(data, &cameras); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to parse camera config, starting with zero cameras")
		return nil
	}

	valid := cameras[:0]
	for _, cam := range cameras {
		if cam.ID == "" || cam.RTSPURL == "" {
			log.Warn().Str("id", cam.ID).Msg("Skipping camera entry with missing id or rtsp_url")
			continue
		}
		if cam.Mode != "" && !cam.Mode.IsValid() {
			log.Warn().Str("id", cam.ID).Str("mode", cam.Mode.String()).Msg("Unknown capture mode, falling back to process default")
			cam.Mode = ""
		}
		valid = append(valid, cam)
	}

	log.Info().Int("cameras", len(valid)).Str("path", path).Msg("Camera config loaded")
	return valid
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

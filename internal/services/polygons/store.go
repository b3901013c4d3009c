package polygons

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Store persists user-drawn polygon regions, one JSON file per camera id.
// Polygon contents are opaque to the server; it stores and returns them
// verbatim.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create polygons dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(cameraID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("polygons_%s.json", cameraID))
}

// Load returns the stored polygon array for a camera. A missing or empty
// file yields an empty array, not an error.
func (s *Store) Load(cameraID string) (json.RawMessage, error) {
	data, err := os.ReadFile(s.path(cameraID))
	if os.IsNotExist(err) {
		return json.RawMessage("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read polygons for %s: %w", cameraID, err)
	}
	if len(data) == 0 {
		return json.RawMessage("[]"), nil
	}
	if !json.Valid(data) {
		log.Warn().Str("camera_id", cameraID).Msg("Polygon file holds invalid JSON, treating as empty")
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(data), nil
}

// Save replaces the stored polygon array for a camera. The payload was
// already validated as JSON at the HTTP boundary.
func (s *Store) Save(cameraID string, data json.RawMessage) error {
	if err := os.WriteFile(s.path(cameraID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write polygons for %s: %w", cameraID, err)
	}
	return nil
}

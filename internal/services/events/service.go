package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"camview-go/internal/config"
	"camview-go/internal/models"
)

// Service publishes camera lifecycle events over NATS. The broker is
// optional at runtime: when disabled or unreachable, the service degrades
// to a no-op with a warning instead of blocking startup.
type Service struct {
	conn    *nats.Conn
	subject string
}

func NewService(cfg *config.Config) *Service {
	if !cfg.EventsEnabled {
		return &Service{}
	}

	opts := []nats.Option{
		nats.Name("camview"),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		log.Warn().Err(err).Str("url", cfg.NatsURL).Msg("NATS unreachable, camera events disabled")
		return &Service{}
	}

	log.Info().Str("url", cfg.NatsURL).Str("subject", cfg.EventsSubject).Msg("NATS connection established for camera events")
	return &Service{conn: conn, subject: cfg.EventsSubject}
}

// PublishCameraEvent sends one event. Publish failures are logged and
// dropped; events must never stall a camera reader.
func (s *Service) PublishCameraEvent(event models.CameraEvent) {
	if s.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("camera_id", event.CameraID).Msg("Failed to marshal camera event")
		return
	}

	if err := s.conn.Publish(s.subject, payload); err != nil {
		log.Warn().Err(err).Str("camera_id", event.CameraID).Str("type", event.Type).Msg("Failed to publish camera event")
	}
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
			s.conn.Close()
		}
	}
	return nil
}

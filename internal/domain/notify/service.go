package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	ws "github.com/abdultalha08475/doc-appt-booking-flow/internal/platform/websocket"
)

type Service struct {
	repo Repository
	pub  ws.EventPublisher
	log  zerolog.Logger
}

// NewService builds the notification service. pub may be nil when no
// realtime feed is wired.
func NewService(repo Repository, pub ws.EventPublisher, log zerolog.Logger) *Service {
	return &Service{repo: repo, pub: pub, log: log}
}

// Notify stores a notification for a user and pushes it on their realtime
// feed. Delivery to the feed is best effort.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.publish(ctx, ws.Event{
		Type:     ws.EventInsert,
		Topic:    ws.UserTopic(n.UserID),
		Entity:   "notification",
		EntityID: n.ID.String(),
	}, n)
	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead flips a notification to read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrNotFound
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) publish(ctx context.Context, event ws.Event, payload interface{}) {
	if s.pub == nil {
		return
	}
	event.Timestamp = time.Now()
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.log.Warn().Err(err).Str("topic", event.Topic).Msg("failed to encode event payload")
			return
		}
		event.Data = data
	}
	if err := s.pub.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("topic", event.Topic).Msg("failed to publish event")
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var notifTracer = otel.Tracer("service/notification")

// NotificationService manages in-app messages for members: due reminders,
// overdue notices, payout confirmations.
type NotificationService struct {
	store  port.NotificationStore
	seq    *Sequencer
	logger *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store port.NotificationStore, seq *Sequencer, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, seq: seq, logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, memberID, kind, title, message string) (*domain.Notification, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.Notify")
	defer span.End()

	notificationID, err := s.seq.Next(ctx, "notifications", "notification_id", "NTF")
	if err != nil {
		return nil, err
	}

	n := &domain.Notification{
		ID:             uuid.NewString(),
		NotificationID: notificationID,
		MemberID:       memberID,
		Title:          title,
		Message:        message,
		Kind:           kind,
		Read:           false,
	}

	created, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.Debug("notification created",
		zap.String("notification_id", created.NotificationID),
		zap.String("member_id", memberID),
		zap.String("kind", kind),
	)
	return created, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, memberID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.ListNotifications")
	defer span.End()

	return s.store.ListNotifications(ctx, memberID, unreadOnly, page, pageSize)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.MarkRead")
	defer span.End()

	return s.store.MarkNotificationRead(ctx, id)
}

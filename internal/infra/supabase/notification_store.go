package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tvsubram/chitfund-api/internal/domain"
)

// ============================================================
// Notifications
// ============================================================

func (c *Client) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateNotification")
	defer span.End()

	data := map[string]any{
		"id":              n.ID,
		"notification_id": n.NotificationID,
		"member_id":       n.MemberID,
		"employee_id":     n.EmployeeID,
		"title":           n.Title,
		"message":         n.Message,
		"kind":            n.Kind,
		"read":            n.Read,
	}

	body, err := c.doPost(ctx, "notifications", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Notification](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return n, nil
	}
	return row, nil
}

func (c *Client) ListNotifications(ctx context.Context, memberID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListNotifications")
	defer span.End()

	offset := (page - 1) * pageSize
	path := fmt.Sprintf("notifications?member_id=eq.%s&order=created_at.desc&limit=%d&offset=%d",
		url.QueryEscape(memberID), pageSize, offset)
	if unreadOnly {
		path += "&read=eq.false"
	}

	var rows []domain.Notification
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.MarkNotificationRead")
	defer span.End()

	path := fmt.Sprintf("notifications?%s", eitherFilter("notification_id", id))
	return c.doPatch(ctx, path, map[string]any{"read": true})
}

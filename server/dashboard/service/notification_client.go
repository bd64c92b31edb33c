package service

import (
	"context"
	"fmt"
	"time"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

type NotificationClient struct {
	api *backend.Client
}

func NewNotificationClient(api *backend.Client) *NotificationClient {
	return &NotificationClient{api: api}
}

type CreateNotificationInput struct {
	Title        string     `json:"title" validate:"required"`
	Content      string     `json:"content" validate:"required"`
	Type         string     `json:"type" validate:"required"`
	ClassID      *int64     `json:"class_id,omitempty"`
	SendOption   string     `json:"send_option"`
	ScheduleTime *time.Time `json:"schedule_time,omitempty"`
}

func (c *NotificationClient) List(ctx context.Context) ([]domain.Notification, error) {
	var items []domain.Notification
	if err := c.api.Get(ctx, "/notifications", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *NotificationClient) Create(ctx context.Context, in CreateNotificationInput) (int64, error) {
	if err := validate.Struct(in); err != nil {
		return 0, err
	}
	var resp struct {
		NotificationID int64 `json:"notification_id"`
	}
	if err := c.api.Post(ctx, "/notifications", in, &resp); err != nil {
		return 0, err
	}
	return resp.NotificationID, nil
}

// MarkRead uses POST; the backend registers the read route as POST even
// though one client variant issued PUT.
func (c *NotificationClient) MarkRead(ctx context.Context, id int64) error {
	var resp map[string]any
	return c.api.Post(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, &resp)
}

func (c *NotificationClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/notifications/%d", id), nil)
}

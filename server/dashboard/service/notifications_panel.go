package service

import (
	"context"
	"sync"

	"schooldesk/server/dashboard/domain"
)

// NotificationsPanel renders the notification list. Every mutation is
// followed by a full reload, so the panel never diverges from the backend.
type NotificationsPanel struct {
	mu     sync.Mutex
	client *NotificationClient
	items  []domain.Notification
}

func NewNotificationsPanel(client *NotificationClient) *NotificationsPanel {
	return &NotificationsPanel{client: client}
}

func (p *NotificationsPanel) Load(ctx context.Context) ([]domain.Notification, error) {
	items, err := p.client.List(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return append([]domain.Notification(nil), items...), nil
}

func (p *NotificationsPanel) Create(ctx context.Context, in CreateNotificationInput) (int64, error) {
	id, err := p.client.Create(ctx, in)
	if err != nil {
		return 0, err
	}
	_, err = p.Load(ctx)
	return id, err
}

func (p *NotificationsPanel) MarkRead(ctx context.Context, id int64) error {
	if err := p.client.MarkRead(ctx, id); err != nil {
		return err
	}
	_, err := p.Load(ctx)
	return err
}

func (p *NotificationsPanel) Delete(ctx context.Context, id int64) error {
	if err := p.client.Delete(ctx, id); err != nil {
		return err
	}
	_, err := p.Load(ctx)
	return err
}

func (p *NotificationsPanel) Items() []domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Notification(nil), p.items...)
}

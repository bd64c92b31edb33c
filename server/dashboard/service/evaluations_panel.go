package service

import (
	"context"
	"sync"

	"schooldesk/server/dashboard/domain"
)

type EvaluationsPanel struct {
	mu     sync.Mutex
	client *EvaluationClient
	items  []domain.Evaluation
}

func NewEvaluationsPanel(client *EvaluationClient) *EvaluationsPanel {
	return &EvaluationsPanel{client: client}
}

func (p *EvaluationsPanel) Load(ctx context.Context) ([]domain.Evaluation, error) {
	items, err := p.client.List(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return append([]domain.Evaluation(nil), items...), nil
}

func (p *EvaluationsPanel) Create(ctx context.Context, studentID int64, content string) (int64, error) {
	id, err := p.client.Create(ctx, studentID, content)
	if err != nil {
		return 0, err
	}
	_, err = p.Load(ctx)
	return id, err
}

func (p *EvaluationsPanel) Items() []domain.Evaluation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Evaluation(nil), p.items...)
}

package service

import (
	"context"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

type EvaluationClient struct {
	api *backend.Client
}

func NewEvaluationClient(api *backend.Client) *EvaluationClient {
	return &EvaluationClient{api: api}
}

func (c *EvaluationClient) List(ctx context.Context) ([]domain.Evaluation, error) {
	var items []domain.Evaluation
	if err := c.api.Get(ctx, "/evaluations", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *EvaluationClient) Create(ctx context.Context, studentID int64, content string) (int64, error) {
	payload := map[string]any{"student_id": studentID, "content": content}
	var resp struct {
		EvaluationID int64 `json:"evaluation_id"`
	}
	if err := c.api.Post(ctx, "/evaluations", payload, &resp); err != nil {
		return 0, err
	}
	return resp.EvaluationID, nil
}

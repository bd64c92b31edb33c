package service

import (
	"context"
	"fmt"
	"net/url"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

type FormClient struct {
	api *backend.Client
}

func NewFormClient(api *backend.Client) *FormClient {
	return &FormClient{api: api}
}

// FormFilter narrows the form list; zero values are dropped from the query.
type FormFilter struct {
	Type   domain.FormType
	Status domain.FormStatus
}

func (f FormFilter) query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

type SubmitFormInput struct {
	Type         domain.FormType `json:"type" validate:"required,oneof=absence complaint feedback permission other"`
	Content      string          `json:"content" validate:"required"`
	DepartmentID *int64          `json:"department_id,omitempty"`
}

func (c *FormClient) List(ctx context.Context, filter FormFilter) ([]domain.Form, error) {
	var items []domain.Form
	if err := c.api.Get(ctx, "/forms", filter.query(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *FormClient) Submit(ctx context.Context, in SubmitFormInput) (domain.Form, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Form{}, err
	}
	var out domain.Form
	if err := c.api.Post(ctx, "/forms", in, &out); err != nil {
		return domain.Form{}, err
	}
	return out, nil
}

func (c *FormClient) UpdateStatus(ctx context.Context, id int64, status domain.FormStatus) error {
	payload := map[string]any{"status": status}
	var resp map[string]any
	return c.api.Put(ctx, fmt.Sprintf("/forms/%d/status", id), payload, &resp)
}

func (c *FormClient) AssignDepartment(ctx context.Context, id, departmentID int64) error {
	payload := map[string]any{"department_id": departmentID}
	var resp map[string]any
	return c.api.Put(ctx, fmt.Sprintf("/forms/%d/assign", id), payload, &resp)
}

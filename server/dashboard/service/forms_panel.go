package service

import (
	"context"
	"sync"

	"schooldesk/server/dashboard/domain"
)

// FormsPanel renders the form list and guards the status workflow: the
// dashboard only ever issues one-step forward transitions, even when the
// backend would accept a skip.
type FormsPanel struct {
	mu         sync.Mutex
	client     *FormClient
	items      []domain.Form
	lastFilter FormFilter
}

func NewFormsPanel(client *FormClient) *FormsPanel {
	return &FormsPanel{client: client}
}

func (p *FormsPanel) Load(ctx context.Context, filter FormFilter) ([]domain.Form, error) {
	items, err := p.client.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.items = items
	p.lastFilter = filter
	p.mu.Unlock()
	return append([]domain.Form(nil), items...), nil
}

func (p *FormsPanel) Submit(ctx context.Context, in SubmitFormInput) (domain.Form, error) {
	created, err := p.client.Submit(ctx, in)
	if err != nil {
		return domain.Form{}, err
	}
	if err := p.reload(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateStatus rejects anything but the next forward step before issuing the
// call: pending may only become processing, processing only completed.
func (p *FormsPanel) UpdateStatus(ctx context.Context, id int64, next domain.FormStatus) error {
	current, ok := p.find(id)
	if !ok {
		return ErrUnknownForm
	}
	if !current.Status.CanAdvanceTo(next) {
		return ErrInvalidStatusTransition
	}
	if err := p.client.UpdateStatus(ctx, id, next); err != nil {
		return err
	}
	return p.reload(ctx)
}

// AssignDepartment is only offered while the form is still pending; the
// status is left untouched by the assignment.
func (p *FormsPanel) AssignDepartment(ctx context.Context, id, departmentID int64) error {
	current, ok := p.find(id)
	if !ok {
		return ErrUnknownForm
	}
	if current.Status != domain.FormPending {
		return ErrInvalidStatusTransition
	}
	if err := p.client.AssignDepartment(ctx, id, departmentID); err != nil {
		return err
	}
	return p.reload(ctx)
}

func (p *FormsPanel) Items() []domain.Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Form(nil), p.items...)
}

func (p *FormsPanel) find(id int64) (domain.Form, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, form := range p.items {
		if form.ID == id {
			return form, true
		}
	}
	return domain.Form{}, false
}

func (p *FormsPanel) reload(ctx context.Context) error {
	p.mu.Lock()
	filter := p.lastFilter
	p.mu.Unlock()
	_, err := p.Load(ctx, filter)
	return err
}

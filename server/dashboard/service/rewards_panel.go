package service

import (
	"context"
	"sync"

	"schooldesk/server/dashboard/domain"
)

// RewardsPanel renders reward/discipline records. The type-dependent
// content-type rule is enforced here, before any network call.
type RewardsPanel struct {
	mu         sync.Mutex
	client     *RewardClient
	items      []domain.RewardRecord
	lastFilter RewardFilter
}

func NewRewardsPanel(client *RewardClient) *RewardsPanel {
	return &RewardsPanel{client: client}
}

func (p *RewardsPanel) Load(ctx context.Context, filter RewardFilter) ([]domain.RewardRecord, error) {
	items, err := p.client.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.items = items
	p.lastFilter = filter
	p.mu.Unlock()
	return append([]domain.RewardRecord(nil), items...), nil
}

func (p *RewardsPanel) Create(ctx context.Context, in RewardInput) (domain.RewardRecord, error) {
	created, err := p.client.Create(ctx, in)
	if err != nil {
		return domain.RewardRecord{}, err
	}
	if err := p.reload(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Update patches a record. A new content type is checked against the
// record's type first, like on create: the backend accepts the mismatch, so
// the rule only holds if it is enforced here.
func (p *RewardsPanel) Update(ctx context.Context, id int64, in RewardUpdate) (domain.RewardRecord, error) {
	if in.ContentType != nil {
		current, ok := p.find(id)
		if !ok {
			return domain.RewardRecord{}, ErrUnknownRecord
		}
		if !current.Type.Allows(*in.ContentType) {
			return domain.RewardRecord{}, ErrContentTypeMismatch
		}
	}
	updated, err := p.client.Update(ctx, id, in)
	if err != nil {
		return domain.RewardRecord{}, err
	}
	if err := p.reload(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (p *RewardsPanel) Delete(ctx context.Context, id int64) error {
	if err := p.client.Delete(ctx, id); err != nil {
		return err
	}
	return p.reload(ctx)
}

func (p *RewardsPanel) StudentStatistics(ctx context.Context, studentID int64) (domain.RewardStatistics, error) {
	return p.client.StudentStatistics(ctx, studentID)
}

func (p *RewardsPanel) ClassStatistics(ctx context.Context, classID int64) (domain.RewardStatistics, error) {
	return p.client.ClassStatistics(ctx, classID)
}

func (p *RewardsPanel) SchoolStatistics(ctx context.Context) (domain.RewardStatistics, error) {
	return p.client.SchoolStatistics(ctx)
}

func (p *RewardsPanel) Items() []domain.RewardRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.RewardRecord(nil), p.items...)
}

func (p *RewardsPanel) find(id int64) (domain.RewardRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, record := range p.items {
		if record.ID == id {
			return record, true
		}
	}
	return domain.RewardRecord{}, false
}

func (p *RewardsPanel) reload(ctx context.Context) error {
	p.mu.Lock()
	filter := p.lastFilter
	p.mu.Unlock()
	_, err := p.Load(ctx, filter)
	return err
}

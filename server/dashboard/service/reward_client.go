package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

type RewardClient struct {
	api *backend.Client
}

func NewRewardClient(api *backend.Client) *RewardClient {
	return &RewardClient{api: api}
}

type RewardFilter struct {
	StudentID int64
	Type      domain.RecordType
}

func (f RewardFilter) query() url.Values {
	q := url.Values{}
	if f.StudentID > 0 {
		q.Set("student_id", strconv.FormatInt(f.StudentID, 10))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	return q
}

// RewardUpdate carries the mutable fields; nil fields are left untouched.
type RewardUpdate struct {
	Content     *string             `json:"content,omitempty"`
	ContentType *domain.ContentType `json:"content_type,omitempty"`
}

func (c *RewardClient) List(ctx context.Context, filter RewardFilter) ([]domain.RewardRecord, error) {
	var items []domain.RewardRecord
	if err := c.api.Get(ctx, "/rewards", filter.query(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RewardClient) Create(ctx context.Context, in RewardInput) (domain.RewardRecord, error) {
	if err := validate.Struct(in); err != nil {
		return domain.RewardRecord{}, err
	}
	var out domain.RewardRecord
	if err := c.api.Post(ctx, "/rewards", in, &out); err != nil {
		return domain.RewardRecord{}, err
	}
	return out, nil
}

func (c *RewardClient) Update(ctx context.Context, id int64, in RewardUpdate) (domain.RewardRecord, error) {
	var out domain.RewardRecord
	if err := c.api.Put(ctx, fmt.Sprintf("/rewards/%d", id), in, &out); err != nil {
		return domain.RewardRecord{}, err
	}
	return out, nil
}

func (c *RewardClient) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/rewards/%d", id), nil)
}

func (c *RewardClient) StudentStatistics(ctx context.Context, studentID int64) (domain.RewardStatistics, error) {
	return c.statistics(ctx, fmt.Sprintf("/rewards/statistics/student/%d", studentID))
}

func (c *RewardClient) ClassStatistics(ctx context.Context, classID int64) (domain.RewardStatistics, error) {
	return c.statistics(ctx, fmt.Sprintf("/rewards/statistics/class/%d", classID))
}

func (c *RewardClient) SchoolStatistics(ctx context.Context) (domain.RewardStatistics, error) {
	return c.statistics(ctx, "/rewards/statistics/school")
}

func (c *RewardClient) statistics(ctx context.Context, path string) (domain.RewardStatistics, error) {
	var out domain.RewardStatistics
	if err := c.api.Get(ctx, path, nil, &out); err != nil {
		return domain.RewardStatistics{}, err
	}
	return out, nil
}

package service

import (
	"context"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

type AuthClient struct {
	api *backend.Client
}

func NewAuthClient(api *backend.Client) *AuthClient {
	return &AuthClient{api: api}
}

type UserInfo struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

type LoginResult struct {
	AccessToken string   `json:"access_token"`
	UserInfo    UserInfo `json:"user_info"`
}

func (c *AuthClient) Login(ctx context.Context, username, password string, role domain.Role) (LoginResult, error) {
	payload := map[string]any{"username": username, "password": password, "role": role}
	var out LoginResult
	if err := c.api.Post(ctx, "/auth/login", payload, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (c *AuthClient) Register(ctx context.Context, username, password, email string, role domain.Role) error {
	payload := map[string]any{"username": username, "password": password, "role": role, "email": email}
	var resp map[string]any
	return c.api.Post(ctx, "/auth/register", payload, &resp)
}

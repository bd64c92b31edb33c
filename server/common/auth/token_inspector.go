package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the backend's access-token claims the dashboard
// cares about. The subject carries the backend user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Inspector decodes access tokens issued by the school backend. The signing
// secret never leaves the backend, so tokens are parsed unverified: the
// claims are for display and session recovery only, never authorization.
type Inspector struct {
	parser *jwt.Parser
}

func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

func (i *Inspector) Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("inspect token: %w", err)
	}
	return claims, nil
}

// UserID resolves the numeric user id from the token subject. Returns 0 when
// the subject is absent or not numeric.
func (c *Claims) UserID() int64 {
	if c.Subject == "" {
		return 0
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ExpiresIn reports the remaining token lifetime, zero when unknown. Expiry
// is informational: the session only ends when the backend answers 401.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := c.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

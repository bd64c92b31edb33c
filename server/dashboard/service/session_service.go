package service

import (
	"context"

	"schooldesk/server/common/auth"
	"schooldesk/server/common/log"
	"schooldesk/server/dashboard/domain"
)

// SessionService owns the login lifecycle: it exchanges credentials for a
// token, mirrors the token to durable storage under the fixed key, and keeps
// the in-memory session in the state store.
type SessionService struct {
	auth      *AuthClient
	state     *AppState
	tokens    *TokenStore
	inspector *auth.Inspector
}

func NewSessionService(authClient *AuthClient, state *AppState, tokens *TokenStore) *SessionService {
	return &SessionService{
		auth:      authClient,
		state:     state,
		tokens:    tokens,
		inspector: auth.NewInspector(),
	}
}

func (s *SessionService) Login(ctx context.Context, username, password string, role domain.Role) (*domain.Session, error) {
	result, err := s.auth.Login(ctx, username, password, role)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:   result.UserInfo.ID,
		Username: result.UserInfo.Username,
		Role:     result.UserInfo.Role,
		Token:    result.AccessToken,
	}
	// Fill whatever user_info left out from the token claims.
	if claims, err := s.inspector.Inspect(result.AccessToken); err == nil {
		if session.UserID == 0 {
			session.UserID = claims.UserID()
		}
		if session.Username == "" {
			session.Username = claims.Username
		}
		if session.Role == "" {
			session.Role = domain.Role(claims.Role)
		}
	}

	if err := s.tokens.Save(result.AccessToken); err != nil {
		log.Warnf("persist token: %v", err)
	}
	s.state.SetCurrentUser(session)
	return session, nil
}

func (s *SessionService) Register(ctx context.Context, username, password, email string, role domain.Role) error {
	return s.auth.Register(ctx, username, password, email, role)
}

func (s *SessionService) Logout() {
	s.state.Clear()
	if err := s.tokens.Clear(); err != nil {
		log.Warnf("clear token: %v", err)
	}
}

// Restore rebuilds the session from a previously stored token, skipping the
// login view. A stored token implies a previously successful login; whether
// it is still accepted is only discovered when the backend answers 401.
func (s *SessionService) Restore() bool {
	token, err := s.tokens.Load()
	if err != nil {
		log.Warnf("load stored token: %v", err)
		return false
	}
	if token == "" {
		return false
	}
	session := &domain.Session{Token: token}
	if claims, err := s.inspector.Inspect(token); err == nil {
		session.UserID = claims.UserID()
		session.Username = claims.Username
		session.Role = domain.Role(claims.Role)
	}
	s.state.SetCurrentUser(session)
	log.Infof("restored session for user=%d", session.UserID)
	return true
}

package service

import (
	"sync"

	"schooldesk/server/dashboard/domain"
)

type StateEventKind string

const (
	StateUserChanged         StateEventKind = "user"
	StateConversationChanged StateEventKind = "conversation"
	StateCleared             StateEventKind = "clear"
)

type StateEvent struct {
	Kind StateEventKind
}

// AppState is the single process-wide holder of session and navigation
// state. Consumers subscribe for typed change events instead of re-rendering
// manually. Guarded by a mutex: panel requests are served concurrently.
type AppState struct {
	mu             sync.RWMutex
	user           *domain.Session
	conversationID int64

	subMu   sync.Mutex
	subs    map[int]chan StateEvent
	nextSub int
}

func NewAppState() *AppState {
	return &AppState{subs: map[int]chan StateEvent{}}
}

func (s *AppState) SetCurrentUser(user *domain.Session) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.publish(StateEvent{Kind: StateUserChanged})
}

func (s *AppState) CurrentUser() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

func (s *AppState) SetCurrentConversationID(id int64) {
	s.mu.Lock()
	s.conversationID = id
	s.mu.Unlock()
	s.publish(StateEvent{Kind: StateConversationChanged})
}

// CurrentConversationID returns 0 when no conversation is active.
func (s *AppState) CurrentConversationID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

func (s *AppState) Clear() {
	s.mu.Lock()
	s.user = nil
	s.conversationID = 0
	s.mu.Unlock()
	s.publish(StateEvent{Kind: StateCleared})
}

func (s *AppState) HasSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Token implements backend.TokenSource: the API client reads the bearer
// token straight from the current session.
func (s *AppState) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// Subscribe registers a change listener. The returned cancel func must be
// called when the listener goes away. Slow listeners miss events rather than
// block a state mutation.
func (s *AppState) Subscribe() (<-chan StateEvent, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan StateEvent, 8)
	s.subs[id] = ch
	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *AppState) publish(event StateEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

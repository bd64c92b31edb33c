package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"schooldesk/server/common/log"
	"schooldesk/server/dashboard/domain"
)

// MessagingSnapshot is the messaging panel's render model: the last fetched
// conversation list, the active conversation's participants and messages,
// and any inline fetch errors.
type MessagingSnapshot struct {
	Conversations        []domain.Conversation `json:"conversations"`
	ActiveConversationID int64                 `json:"active_conversation_id"`
	Participants         []domain.Participant  `json:"participants"`
	Messages             []domain.Message      `json:"messages"`
	ComposeVisible       bool                  `json:"compose_visible"`
	ConversationsError   string                `json:"conversations_error,omitempty"`
	MessagesError        string                `json:"messages_error,omitempty"`
}

// MessagingView synchronizes the messaging panel's state across user actions
// and manual refreshes. Every transition replaces its whole slice of state
// from a fresh fetch; a generation counter discards completions that finish
// after a newer selection started, so a slow stale fetch can never overwrite
// a newer one.
type MessagingView struct {
	mu    sync.Mutex
	msgs  *MessageClient
	state *AppState
	gen   uint64

	conversations      []domain.Conversation
	messages           []domain.Message
	composeVisible     bool
	conversationsError string
	messagesError      string
}

func NewMessagingView(msgs *MessageClient, state *AppState) *MessagingView {
	return &MessagingView{msgs: msgs, state: state}
}

// SelectConversation makes id the active conversation and reloads both the
// conversation list (for participant metadata) and the message feed. The two
// fetches fail independently: a participant-metadata failure does not block
// message display. The compose form becomes visible once both loads have
// attempted.
func (v *MessagingView) SelectConversation(ctx context.Context, id int64) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()
	v.state.SetCurrentConversationID(id)

	conversations, convErr := v.msgs.ListConversations(ctx)
	messages, msgErr := v.msgs.ListMessages(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		log.Debugf("discard stale selection result conversation=%d", id)
		return nil
	}
	// A slower stale select may have written the active id after this
	// select's initial write; the winning select re-asserts it.
	if v.state.CurrentConversationID() != id {
		v.state.SetCurrentConversationID(id)
	}
	if convErr != nil {
		v.conversationsError = convErr.Error()
	} else {
		v.conversations = conversations
		v.conversationsError = ""
	}
	if msgErr != nil {
		v.messagesError = msgErr.Error()
	} else {
		v.messages = messages
		v.messagesError = ""
	}
	v.composeVisible = true
	return errors.Join(convErr, msgErr)
}

// SendMessage posts the trimmed content to the active conversation, then
// re-selects it so the panel shows the backend-confirmed feed. There is no
// optimistic local append. Empty content or no active conversation is a
// no-op precondition failure: no network call is made.
func (v *MessagingView) SendMessage(ctx context.Context, content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrEmptyMessage
	}
	active := v.state.CurrentConversationID()
	if active == 0 {
		return ErrNoActiveConversation
	}
	if _, err := v.msgs.SendMessage(ctx, active, trimmed); err != nil {
		return err
	}
	return v.SelectConversation(ctx, active)
}

// CreateConversation validates client-side, creates the conversation, and
// re-fetches the conversation list. A private conversation requires exactly
// two participants, matching the backend's rule.
func (v *MessagingView) CreateConversation(ctx context.Context, convType domain.ConversationType, title string, participants []int64) (int64, error) {
	if convType != domain.ConversationPrivate && convType != domain.ConversationGroup {
		return 0, ErrInvalidConversationType
	}
	if strings.TrimSpace(title) == "" {
		return 0, ErrEmptyTitle
	}
	if convType == domain.ConversationPrivate && len(participants) != 2 {
		return 0, ErrPrivateNeedsTwo
	}
	id, err := v.msgs.CreateConversation(ctx, convType, strings.TrimSpace(title), participants)
	if err != nil {
		return 0, err
	}
	if err := v.RefreshConversations(ctx); err != nil {
		return id, err
	}
	return id, nil
}

func (v *MessagingView) AddParticipant(ctx context.Context, userID int64) error {
	active := v.state.CurrentConversationID()
	if active == 0 {
		return ErrNoActiveConversation
	}
	if err := v.msgs.AddParticipant(ctx, active, userID); err != nil {
		return err
	}
	return v.SelectConversation(ctx, active)
}

// RemoveParticipant requires an explicit confirmation flag before issuing
// the call, then resynchronizes the active conversation.
func (v *MessagingView) RemoveParticipant(ctx context.Context, userID int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	active := v.state.CurrentConversationID()
	if active == 0 {
		return ErrNoActiveConversation
	}
	if err := v.msgs.RemoveParticipant(ctx, active, userID); err != nil {
		return err
	}
	return v.SelectConversation(ctx, active)
}

// RefreshConversations reloads only the conversation list. The result is
// discarded if a newer selection started while the fetch was in flight.
func (v *MessagingView) RefreshConversations(ctx context.Context) error {
	v.mu.Lock()
	gen := v.gen
	v.mu.Unlock()

	conversations, err := v.msgs.ListConversations(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		log.Debugf("discard stale conversation list")
		return nil
	}
	if err != nil {
		v.conversationsError = err.Error()
		return err
	}
	v.conversations = conversations
	v.conversationsError = ""
	return nil
}

func (v *MessagingView) Snapshot() MessagingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	active := v.state.CurrentConversationID()
	snap := MessagingSnapshot{
		Conversations:        append([]domain.Conversation(nil), v.conversations...),
		ActiveConversationID: active,
		Messages:             append([]domain.Message(nil), v.messages...),
		ComposeVisible:       v.composeVisible,
		ConversationsError:   v.conversationsError,
		MessagesError:        v.messagesError,
	}
	for _, conv := range v.conversations {
		if conv.ID == active {
			snap.Participants = append([]domain.Participant(nil), conv.Participants...)
			break
		}
	}
	return snap
}

// Reset drops all messaging state, used on logout.
func (v *MessagingView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.conversations = nil
	v.messages = nil
	v.composeVisible = false
	v.conversationsError = ""
	v.messagesError = ""
}

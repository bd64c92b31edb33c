package service

import (
	"context"
	"fmt"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/dashboard/domain"
)

type MessageClient struct {
	api *backend.Client
}

func NewMessageClient(api *backend.Client) *MessageClient {
	return &MessageClient{api: api}
}

func (c *MessageClient) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var items []domain.Conversation
	if err := c.api.Get(ctx, "/messages/conversations", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *MessageClient) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	var items []domain.Message
	path := fmt.Sprintf("/messages/conversations/%d/messages", conversationID)
	if err := c.api.Get(ctx, path, nil, &items); err != nil {
		return nil, err
	}
	// The backend omits conversation_id from message payloads; stamp it from
	// the request so consumers can tell which feed a message belongs to.
	for i := range items {
		if items[i].ConversationID == 0 {
			items[i].ConversationID = conversationID
		}
	}
	return items, nil
}

func (c *MessageClient) SendMessage(ctx context.Context, conversationID int64, content string) (int64, error) {
	payload := map[string]any{"content": content}
	var resp struct {
		MessageID int64 `json:"message_id"`
	}
	path := fmt.Sprintf("/messages/conversations/%d/messages", conversationID)
	if err := c.api.Post(ctx, path, payload, &resp); err != nil {
		return 0, err
	}
	return resp.MessageID, nil
}

func (c *MessageClient) CreateConversation(ctx context.Context, convType domain.ConversationType, title string, participants []int64) (int64, error) {
	payload := map[string]any{"type": convType, "title": title, "participants": participants}
	var resp struct {
		ConversationID int64 `json:"conversation_id"`
	}
	if err := c.api.Post(ctx, "/messages/conversations", payload, &resp); err != nil {
		return 0, err
	}
	return resp.ConversationID, nil
}

func (c *MessageClient) AddParticipant(ctx context.Context, conversationID, userID int64) error {
	payload := map[string]any{"participant_id": userID}
	var resp map[string]any
	path := fmt.Sprintf("/messages/conversations/%d/participants", conversationID)
	return c.api.Post(ctx, path, payload, &resp)
}

func (c *MessageClient) RemoveParticipant(ctx context.Context, conversationID, userID int64) error {
	path := fmt.Sprintf("/messages/conversations/%d/participants/%d", conversationID, userID)
	return c.api.Delete(ctx, path, nil)
}

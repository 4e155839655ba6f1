// Package conversations is the typed façade over the platform's two-way
// messaging resource: conversations, messages and attachments.
package conversations

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector"
)

const defaultSearchLimit = 20

var validate = validator.New()

// Service exposes conversation and messaging operations.
type Service struct {
	client *leadconnector.Client
	log    zerolog.Logger
}

// NewService constructs the conversations façade.
func NewService(client *leadconnector.Client, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("component", "conversations").Logger(),
	}
}

// Search lists conversations under the tenant, filterable by contact, read
// state, star state and assignee.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	status := params.Status
	if status == "" {
		status = StatusAll
	}

	query := leadconnector.Query{}.
		Set("locationId", s.client.LocationID()).
		SetInt("limit", limit).
		Set("contactId", params.ContactID).
		Set("query", params.Query).
		Set("status", string(status)).
		Set("assignedTo", params.AssignedTo).
		Set("sortBy", params.SortBy).
		SetInt64("startAfterDate", params.StartAfterDate)

	env, err := s.client.Get(ctx, "/conversations/search", query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Conversations []Conversation `json:"conversations"`
		Total         int            `json:"total"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	return &SearchResult{Conversations: body.Conversations, Total: body.Total}, nil
}

// Get fetches one conversation by id.
func (s *Service) Get(ctx context.Context, id string) (*Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("conversation id is required")
	}

	env, err := s.client.Get(ctx, "/conversations/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeConversation(env)
}

// Create opens a conversation for a contact.
func (s *Service) Create(ctx context.Context, contactID string) (*Conversation, error) {
	if contactID == "" {
		return nil, fmt.Errorf("contact id is required")
	}

	body := map[string]any{
		"locationId": s.client.LocationID(),
		"contactId":  contactID,
	}
	env, err := s.client.Post(ctx, "/conversations/", body, nil)
	if err != nil {
		return nil, err
	}
	return decodeConversation(env)
}

// GetOrCreate returns the contact's conversation, creating it when none
// exists. At most one conversation exists per (tenant, contact) pair, so a
// limit=1 search decides the branch.
func (s *Service) GetOrCreate(ctx context.Context, contactID string) (*Conversation, error) {
	if contactID == "" {
		return nil, fmt.Errorf("contact id is required")
	}

	found, err := s.Search(ctx, SearchParams{ContactID: contactID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found.Conversations) > 0 {
		return &found.Conversations[0], nil
	}
	return s.Create(ctx, contactID)
}

// Delete removes a conversation.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("conversation id is required")
	}
	_, err := s.client.Delete(ctx, "/conversations/"+id, nil, nil)
	return err
}

// ListMessages pages through a conversation's messages, newest first,
// cursoring on LastMessageID.
func (s *Service) ListMessages(ctx context.Context, conversationID string, params MessageListParams) (*MessageListResult, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := leadconnector.Query{}.
		SetInt("limit", limit).
		Set("lastMessageId", params.LastMessageID).
		Set("type", string(params.Type))

	env, err := s.client.Get(ctx, "/conversations/"+conversationID+"/messages", query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Messages []Message `json:"messages"`
		NextPage bool      `json:"nextPage"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}

	result := &MessageListResult{Messages: body.Messages, NextPage: body.NextPage}
	if env.Meta != nil && env.Meta.LastMessageID != "" {
		result.LastMessageID = env.Meta.LastMessageID
	} else if n := len(body.Messages); n > 0 {
		result.LastMessageID = body.Messages[n-1].ID
	}
	return result, nil
}

// Send dispatches an outbound message on the channel named by params.Type.
// Channel-specific required fields are checked locally before any network
// call.
func (s *Service) Send(ctx context.Context, params SendParams) (*Message, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate send params: %w", err)
	}
	if !ValidateMessageType(string(params.Type)) {
		return nil, fmt.Errorf("unknown message type %q", params.Type)
	}
	switch params.Type {
	case TypeSMS:
		if params.Message == "" {
			return nil, fmt.Errorf("sms requires a message body")
		}
	case TypeEmail:
		if params.Subject == "" || params.HTML == "" {
			return nil, fmt.Errorf("email requires a subject and html body")
		}
	}

	env, err := s.client.Post(ctx, "/conversations/messages", params, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		MessageID      string        `json:"messageId"`
		ConversationID string        `json:"conversationId"`
		Message        *Message      `json:"message"`
		Status         MessageStatus `json:"status"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}

	if body.Message != nil {
		return body.Message, nil
	}

	// The send endpoint answers with ids only; synthesize the message the
	// caller just created.
	status := body.Status
	if status == "" {
		if params.ScheduledTimestamp > 0 {
			status = StatusScheduled
		} else {
			status = StatusPending
		}
	}
	return &Message{
		ID:             body.MessageID,
		ConversationID: body.ConversationID,
		ContactID:      params.ContactID,
		Type:           params.Type,
		Direction:      DirectionOutbound,
		Status:         status,
		Body:           params.Message,
		Subject:        params.Subject,
		Attachments:    params.Attachments,
		DateAdded:      time.Now().UTC(),
	}, nil
}

// SendSMS sends a plain SMS to a contact.
func (s *Service) SendSMS(ctx context.Context, contactID, body string) (*Message, error) {
	return s.Send(ctx, SendParams{
		Type:      TypeSMS,
		ContactID: contactID,
		Message:   body,
	})
}

// SendEmail sends an email to a contact.
func (s *Service) SendEmail(ctx context.Context, contactID string, params EmailParams) (*Message, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate email params: %w", err)
	}
	return s.Send(ctx, SendParams{
		Type:      TypeEmail,
		ContactID: contactID,
		Subject:   params.Subject,
		HTML:      params.HTML,
		EmailFrom: params.From,
		EmailTo:   params.To,
		EmailCC:   params.CC,
		EmailBCC:  params.BCC,
	})
}

// MarkRead clears a conversation's unread count.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.flag(ctx, id, "read")
}

// MarkUnread flags a conversation as unread.
func (s *Service) MarkUnread(ctx context.Context, id string) error {
	return s.flag(ctx, id, "unread")
}

// Star stars a conversation.
func (s *Service) Star(ctx context.Context, id string) error {
	return s.flag(ctx, id, "star")
}

// Unstar removes a conversation's star.
func (s *Service) Unstar(ctx context.Context, id string) error {
	return s.flag(ctx, id, "unstar")
}

func (s *Service) flag(ctx context.Context, id, action string) error {
	if id == "" {
		return fmt.Errorf("conversation id is required")
	}
	_, err := s.client.Put(ctx, "/conversations/"+id+"/"+action, nil, nil)
	return err
}

// UploadAttachment stores a file with the platform and returns the reference
// to use in a subsequent Send.
func (s *Service) UploadAttachment(ctx context.Context, conversationID, filename string, data []byte) (*Attachment, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("attachment data is empty")
	}

	form := map[string]string{
		"conversationId": conversationID,
		"locationId":     s.client.LocationID(),
	}
	env, err := s.client.Upload(ctx, "/conversations/messages/upload", "fileAttachment", filename, data, form)
	if err != nil {
		return nil, err
	}

	var attachment Attachment
	if err := env.Decode(&attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func decodeConversation(env *leadconnector.Envelope) (*Conversation, error) {
	var body struct {
		Conversation Conversation `json:"conversation"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	if body.Conversation.ID != "" {
		return &body.Conversation, nil
	}

	// Some endpoints return the conversation unwrapped.
	var conversation Conversation
	if err := env.Decode(&conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

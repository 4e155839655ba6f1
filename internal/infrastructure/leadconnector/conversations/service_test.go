package conversations_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/config"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/conversations"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/ratelimit"
)

func newService(t *testing.T, handler http.Handler) *conversations.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		CRMAPIKey:     "test-key",
		CRMLocationID: "loc_123",
		CRMBaseURL:    srv.URL,
		HTTPTimeout:   5 * time.Second,
	}
	client, err := leadconnector.New(cfg, ratelimit.New(time.Minute, 1000), zerolog.Nop())
	require.NoError(t, err)
	return conversations.NewService(client, zerolog.Nop())
}

func TestGetOrCreate_ReturnsExisting(t *testing.T) {
	var calls []string
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "cont_1", r.URL.Query().Get("contactId"))
		w.Write([]byte(`{"conversations":[{"id":"conv_1","contactId":"cont_1","unreadCount":2}],"total":1}`))
	}))

	conv, err := svc.GetOrCreate(context.Background(), "cont_1")
	require.NoError(t, err)
	assert.Equal(t, "conv_1", conv.ID)
	assert.Equal(t, []string{"GET /conversations/search"}, calls)
}

func TestGetOrCreate_CreatesWhenMissing(t *testing.T) {
	var calls []string
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/conversations/search":
			w.Write([]byte(`{"conversations":[],"total":0}`))
		case "/conversations/":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "loc_123", body["locationId"])
			assert.Equal(t, "cont_2", body["contactId"])
			w.Write([]byte(`{"conversation":{"id":"conv_new","contactId":"cont_2"}}`))
		default:
			http.NotFound(w, r)
		}
	}))

	conv, err := svc.GetOrCreate(context.Background(), "cont_2")
	require.NoError(t, err)
	assert.Equal(t, "conv_new", conv.ID)
	assert.Equal(t, []string{"GET /conversations/search", "POST /conversations/"}, calls)
}

func TestSendSMS_ShapesOutboundMessage(t *testing.T) {
	var body map[string]any
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversations/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"conversationId":"conv_1","messageId":"msg_42"}`))
	}))

	message, err := svc.SendSMS(context.Background(), "cont_1", "Hi")
	require.NoError(t, err)

	assert.Equal(t, "TYPE_SMS", body["type"])
	assert.Equal(t, "Hi", body["message"])

	assert.Equal(t, "msg_42", message.ID)
	assert.Equal(t, "conv_1", message.ConversationID)
	assert.Equal(t, conversations.TypeSMS, message.Type)
	assert.Equal(t, conversations.DirectionOutbound, message.Direction)
	assert.Contains(t, []conversations.MessageStatus{
		conversations.StatusPending,
		conversations.StatusSent,
	}, message.Status)
}

func TestSend_ChannelFieldValidation(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	tests := []struct {
		name   string
		params conversations.SendParams
	}{
		{"sms without body", conversations.SendParams{Type: conversations.TypeSMS, ContactID: "c"}},
		{"email without subject", conversations.SendParams{Type: conversations.TypeEmail, ContactID: "c", HTML: "<p>hi</p>"}},
		{"email without html", conversations.SendParams{Type: conversations.TypeEmail, ContactID: "c", Subject: "hi"}},
		{"missing contact", conversations.SendParams{Type: conversations.TypeSMS, Message: "hi"}},
		{"unknown type", conversations.SendParams{Type: "TYPE_CARRIER_PIGEON", ContactID: "c", Message: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), tt.params)
			require.Error(t, err)
		})
	}
}

func TestSend_ScheduledMessageStartsScheduled(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"conversationId":"conv_1","messageId":"msg_7"}`))
	}))

	message, err := svc.Send(context.Background(), conversations.SendParams{
		Type:               conversations.TypeSMS,
		ContactID:          "cont_1",
		Message:            "later",
		ScheduledTimestamp: time.Now().Add(time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	assert.Equal(t, conversations.StatusScheduled, message.Status)
}

func TestListMessages_CursorAndOrdering(t *testing.T) {
	var got *http.Request
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.Write([]byte(`{
			"messages":[
				{"id":"msg_3","type":"TYPE_SMS","direction":"outbound","status":"sent","dateAdded":"2025-06-01T12:05:00Z"},
				{"id":"msg_2","type":"TYPE_SMS","direction":"inbound","status":"read","dateAdded":"2025-06-01T12:01:00Z"},
				{"id":"msg_1","type":"TYPE_EMAIL","direction":"outbound","status":"delivered","dateAdded":"2025-06-01T11:00:00Z"}
			],
			"nextPage":true,
			"meta":{"lastMessageId":"msg_1"}
		}`))
	}))

	result, err := svc.ListMessages(context.Background(), "conv_1", conversations.MessageListParams{
		Limit:         3,
		LastMessageID: "msg_4",
	})
	require.NoError(t, err)

	assert.Equal(t, "/conversations/conv_1/messages", got.URL.Path)
	assert.Equal(t, "msg_4", got.URL.Query().Get("lastMessageId"))

	require.Len(t, result.Messages, 3)
	// Reverse chronological: each message is newer than the next.
	for i := 0; i < len(result.Messages)-1; i++ {
		assert.True(t, result.Messages[i].DateAdded.After(result.Messages[i+1].DateAdded))
	}
	assert.Equal(t, "msg_1", result.LastMessageID)
	assert.True(t, result.NextPage)
}

func TestMarkReadAndStar_HitFlagEndpoints(t *testing.T) {
	var calls []string
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	}))

	ctx := context.Background()
	require.NoError(t, svc.MarkRead(ctx, "conv_1"))
	require.NoError(t, svc.MarkUnread(ctx, "conv_1"))
	require.NoError(t, svc.Star(ctx, "conv_1"))
	require.NoError(t, svc.Unstar(ctx, "conv_1"))

	assert.Equal(t, []string{
		"PUT /conversations/conv_1/read",
		"PUT /conversations/conv_1/unread",
		"PUT /conversations/conv_1/star",
		"PUT /conversations/conv_1/unstar",
	}, calls)
}

func TestUploadAttachment_RoundTrip(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversations/messages/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "conv_1", r.FormValue("conversationId"))
		assert.Equal(t, "loc_123", r.FormValue("locationId"))

		file, header, err := r.FormFile("fileAttachment")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "quote.pdf", header.Filename)

		w.Write([]byte(`{"attachmentId":"att_1","url":"https://cdn.example.com/att_1"}`))
	}))

	attachment, err := svc.UploadAttachment(context.Background(), "conv_1", "quote.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "att_1", attachment.ID)
	assert.Equal(t, "https://cdn.example.com/att_1", attachment.URL)
}

func TestMessageStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to conversations.MessageStatus }{
		{conversations.StatusPending, conversations.StatusSent},
		{conversations.StatusScheduled, conversations.StatusSent},
		{conversations.StatusSent, conversations.StatusDelivered},
		{conversations.StatusSent, conversations.StatusFailed},
		{conversations.StatusSent, conversations.StatusUndelivered},
		{conversations.StatusDelivered, conversations.StatusRead},
	}
	for _, tt := range allowed {
		if !conversations.CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to conversations.MessageStatus }{
		{conversations.StatusPending, conversations.StatusDelivered},
		{conversations.StatusRead, conversations.StatusSent},
		{conversations.StatusFailed, conversations.StatusSent},
		{conversations.StatusUndelivered, conversations.StatusDelivered},
		{conversations.StatusDelivered, conversations.StatusSent},
	}
	for _, tt := range denied {
		if conversations.CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be denied", tt.from, tt.to)
		}
	}
}

func TestValidateEnums(t *testing.T) {
	assert.True(t, conversations.ValidateMessageType("TYPE_SMS"))
	assert.True(t, conversations.ValidateMessageType("TYPE_EMAIL"))
	assert.False(t, conversations.ValidateMessageType("TYPE_FAX"))

	assert.True(t, conversations.ValidateMessageStatus("delivered"))
	assert.False(t, conversations.ValidateMessageStatus("vanished"))
}

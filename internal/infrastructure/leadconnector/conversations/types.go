package conversations

import "time"

// MessageType is the closed set of channels a message can travel on.
type MessageType string

const (
	TypeSMS       MessageType = "TYPE_SMS"
	TypeEmail     MessageType = "TYPE_EMAIL"
	TypeCall      MessageType = "TYPE_CALL"
	TypeWhatsApp  MessageType = "TYPE_WHATSAPP"
	TypeFacebook  MessageType = "TYPE_FACEBOOK"
	TypeInstagram MessageType = "TYPE_INSTAGRAM"
	TypeLiveChat  MessageType = "TYPE_LIVE_CHAT"
	TypeCustom    MessageType = "TYPE_CUSTOM"
)

// ValidateMessageType reports whether input names a known channel.
func ValidateMessageType(input string) bool {
	switch MessageType(input) {
	case TypeSMS, TypeEmail, TypeCall, TypeWhatsApp,
		TypeFacebook, TypeInstagram, TypeLiveChat, TypeCustom:
		return true
	default:
		return false
	}
}

// MessageDirection is fixed at message creation and never transitions.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// MessageStatus evolves over a message's lifetime. The success path is
// pending|scheduled -> sent -> delivered -> read; failed and undelivered are
// terminal states reachable from sent.
type MessageStatus string

const (
	StatusPending     MessageStatus = "pending"
	StatusScheduled   MessageStatus = "scheduled"
	StatusSent        MessageStatus = "sent"
	StatusDelivered   MessageStatus = "delivered"
	StatusRead        MessageStatus = "read"
	StatusUndelivered MessageStatus = "undelivered"
	StatusFailed      MessageStatus = "failed"
)

// ValidateMessageStatus reports whether input names a known status.
func ValidateMessageStatus(input string) bool {
	switch MessageStatus(input) {
	case StatusPending, StatusScheduled, StatusSent, StatusDelivered,
		StatusRead, StatusUndelivered, StatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the platform's message lifecycle permits
// moving from one status to another.
func CanTransition(from, to MessageStatus) bool {
	switch from {
	case StatusPending, StatusScheduled:
		return to == StatusSent
	case StatusSent:
		return to == StatusDelivered || to == StatusFailed || to == StatusUndelivered
	case StatusDelivered:
		return to == StatusRead
	default:
		// read, failed and undelivered are terminal
		return false
	}
}

// Conversation is the mutable mailbox aggregate for one contact. At most one
// exists per (tenant, contact) pair; obtain it via GetOrCreate.
type Conversation struct {
	ID              string      `json:"id"`
	LocationID      string      `json:"locationId"`
	ContactID       string      `json:"contactId"`
	LastMessageBody string      `json:"lastMessageBody,omitempty"`
	LastMessageType MessageType `json:"lastMessageType,omitempty"`
	LastMessageDate time.Time   `json:"lastMessageDate,omitzero"`
	UnreadCount     int         `json:"unreadCount"`
	Starred         bool        `json:"starred"`
	FullName        string      `json:"fullName,omitempty"`
	Email           string      `json:"email,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	AssignedTo      string      `json:"assignedTo,omitempty"`
}

// Message is an immutable append-only event in exactly one conversation.
// Creation order is authoritative for pagination.
type Message struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversationId"`
	LocationID     string           `json:"locationId,omitempty"`
	ContactID      string           `json:"contactId,omitempty"`
	Type           MessageType      `json:"type"`
	Direction      MessageDirection `json:"direction"`
	Status         MessageStatus    `json:"status"`
	Body           string           `json:"body,omitempty"`
	Subject        string           `json:"subject,omitempty"`
	Attachments    []string         `json:"attachments,omitempty"`
	UserID         string           `json:"userId,omitempty"`
	DateAdded      time.Time        `json:"dateAdded,omitzero"`
}

// ConversationStatus filters a conversation search.
type ConversationStatus string

const (
	StatusAll              ConversationStatus = "all"
	ConversationStatusRead ConversationStatus = "read"
	StatusUnread           ConversationStatus = "unread"
	StatusStarred          ConversationStatus = "starred"
)

// SearchParams filters the conversation search. Zero-valued fields are
// omitted from the request.
type SearchParams struct {
	ContactID      string
	Query          string
	Status         ConversationStatus
	AssignedTo     string
	Limit          int
	SortBy         string
	StartAfterDate int64
}

// SearchResult is a page of conversations.
type SearchResult struct {
	Conversations []Conversation
	Total         int
}

// MessageListParams pages through a conversation's messages in reverse
// chronological order, cursoring on the last seen message id.
type MessageListParams struct {
	Limit         int
	LastMessageID string
	Type          MessageType
}

// MessageListResult is a page of messages plus the cursor for the next page.
type MessageListResult struct {
	Messages      []Message
	LastMessageID string
	NextPage      bool
}

// SendParams describes an outbound message, polymorphic over channel type.
// SMS uses Message only; Email uses Subject/HTML and the address fields.
type SendParams struct {
	Type      MessageType `json:"type" validate:"required"`
	ContactID string      `json:"contactId" validate:"required"`

	Message string `json:"message,omitempty"`

	Subject   string   `json:"subject,omitempty"`
	HTML      string   `json:"html,omitempty"`
	EmailFrom string   `json:"emailFrom,omitempty" validate:"omitempty,email"`
	EmailTo   string   `json:"emailTo,omitempty" validate:"omitempty,email"`
	EmailCC   []string `json:"emailCc,omitempty" validate:"omitempty,dive,email"`
	EmailBCC  []string `json:"emailBcc,omitempty" validate:"omitempty,dive,email"`

	Attachments        []string `json:"attachments,omitempty"`
	ScheduledTimestamp int64    `json:"scheduledTimestamp,omitempty"`
}

// EmailParams carries the email-specific fields for SendEmail.
type EmailParams struct {
	Subject string   `validate:"required"`
	HTML    string   `validate:"required"`
	From    string   `validate:"omitempty,email"`
	To      string   `validate:"omitempty,email"`
	CC      []string `validate:"omitempty,dive,email"`
	BCC     []string `validate:"omitempty,dive,email"`
}

// Attachment references an uploaded file usable in a subsequent send.
type Attachment struct {
	ID  string `json:"attachmentId"`
	URL string `json:"url"`
}

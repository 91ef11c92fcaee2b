package domain

import "time"

// MessageStatus tracks the read state of an inbound message.
type MessageStatus string

const (
	MessageUnread  MessageStatus = "unread"
	MessageRead    MessageStatus = "read"
	MessageReplied MessageStatus = "replied"
)

// Conversation is a chat thread between a business and a contact or an
// anonymous website visitor.
type Conversation struct {
	ID            int64     `json:"id"`
	BusinessID    int64     `json:"businessId"`
	ContactID     *int64    `json:"contactId,omitempty"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int32     `json:"unreadCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Message is a single chat message inside a conversation.
type Message struct {
	ID             int64         `json:"id"`
	ConversationID int64         `json:"conversationId"`
	Content        string        `json:"content"`
	IsFromBusiness bool          `json:"isFromBusiness"`
	Status         MessageStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

package models

import "time"

// Message represents a direct message between two users
type Message struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	FileURL    *string   `json:"fileUrl,omitempty" db:"file_url"`
	Read       bool      `json:"read" db:"read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Counterpart returns the other participant of the message relative to userID
func (m Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Involves reports whether the message was exchanged between a and b, in either direction
func (m Message) Involves(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

// Before orders messages by creation time, then by id.
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}

// ConversationKey is the unordered pair of users taking part in a conversation.
// It is a grouping key only and is never persisted.
type ConversationKey struct {
	Low  string
	High string
}

// NewConversationKey builds the key so that NewConversationKey(a, b) == NewConversationKey(b, a)
func NewConversationKey(a, b string) ConversationKey {
	if a > b {
		a, b = b, a
	}
	return ConversationKey{Low: a, High: b}
}

// Other returns the member of the pair that is not userID
func (k ConversationKey) Other(userID string) string {
	if k.Low == userID {
		return k.High
	}
	return k.Low
}

// ConversationSummary is one entry of a user's conversation list
type ConversationSummary struct {
	CounterpartID        string    `json:"counterpartId"`
	Counterpart          Profile   `json:"counterpart"`
	LatestMessageID      string    `json:"latestMessageId"`
	LatestMessageContent string    `json:"latestMessageContent"`
	LatestMessageTime    time.Time `json:"latestMessageTime"`
	UnreadCount          int       `json:"unreadCount"`
}

package model

import "time"

// Chat session statuses. A session goes active -> closed once.
const (
	ChatActive = "active"
	ChatClosed = "closed"
)

// Chat sender types.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// DefaultVisitorName is used when the visitor gives no name.
const DefaultVisitorName = "Visitante Web"

// ChatSession is one visitor conversation.
type ChatSession struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email,omitempty"`
	Status        string    `json:"status"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatMessage belongs to exactly one ChatSession.
type ChatMessage struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id" validate:"required"`
	SenderType string    `json:"sender_type" validate:"oneof=user admin"`
	Content    string    `json:"content" validate:"required,max=4000"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

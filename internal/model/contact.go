package model

import "time"

// Message statuses.
const (
	MessageUnread   = "unread"
	MessageRead     = "read"
	MessageReplied  = "replied"
	MessageArchived = "archived"
)

// Message sources.
const (
	SourceSite = "site"
	SourceSMS  = "sms"
	SourceChat = "chat"
)

// Message represents a message submitted via the contact form.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone,omitempty" validate:"max=50"`
	Subject   string    `json:"subject" validate:"max=255"`
	Content   string    `json:"content" validate:"required,max=5000"`
	Source    string    `json:"source" validate:"oneof=site sms chat"`
	Status    string    `json:"status" validate:"oneof=unread read replied archived"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageUpdate carries the admin-editable fields of a Message.
type MessageUpdate struct {
	Status string `json:"status" validate:"oneof=unread read replied archived"`
}

// Subscriber statuses.
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber is a newsletter subscriber.
type Subscriber struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"max=255"`
	Email        string    `json:"email" validate:"required,email"`
	Status       string    `json:"status" validate:"oneof=active unsubscribed"`
	Source       string    `json:"source" validate:"max=50"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

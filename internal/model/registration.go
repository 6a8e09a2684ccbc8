package model

import "time"

// Registration statuses.
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Registration is a visitor's sign-up for an event. EventName is a
// denormalized copy of the chosen entry's title; EventID stays NULL.
type Registration struct {
	ID        string    `json:"id"`
	EventID   *string   `json:"event_id"`
	EventName string    `json:"event_name" validate:"required,max=255"`
	UserName  string    `json:"user_name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"max=50"`
	Status    string    `json:"status" validate:"oneof=pending confirmed cancelled"`
	CreatedAt time.Time `json:"created_at"`
}

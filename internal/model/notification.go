package model

import "time"

// Notification kinds.
const (
	NotificationRegistration = "registration"
	NotificationMessage      = "message"
)

// Notification is an admin feed entry. It lives only in memory.
type Notification struct {
	ID      int64     `json:"id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
	// Sound asks the console to play the audio cue.
	Sound bool `json:"sound"`
}

// SearchHit is one row of a site-wide search.
type SearchHit struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Image       string `json:"image"`
	Location    string `json:"location,omitempty"`
}

// SearchResult groups hits by kind.
type SearchResult struct {
	Events []SearchHit `json:"events"`
	News   []SearchHit `json:"news"`
}

// DashboardStats are the counters on the admin dashboard.
type DashboardStats struct {
	Events               int `json:"events"`
	PublishedNews        int `json:"published_news"`
	PendingRegistrations int `json:"pending_registrations"`
	UnreadMessages       int `json:"unread_messages"`
	ActiveSubscribers    int `json:"active_subscribers"`
	ActiveChats          int `json:"active_chats"`
}

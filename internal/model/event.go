package model

import "time"

// Publication status shared by events and news.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Event is a fair or exhibition shown on the public site.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title" validate:"required,max=255"`
	Date          string    `json:"date" validate:"required,datetime=2006-01-02"`
	Location      string    `json:"location" validate:"max=255"`
	Category      string    `json:"category" validate:"max=100"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"cover_image"`
	VideoURL      string    `json:"video_url,omitempty"`
	GalleryImages []string  `json:"gallery_images"`
	IsFeatured    bool      `json:"is_featured"`
	Status        string    `json:"status" validate:"oneof=draft published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventFilter narrows the public event listing.
type EventFilter struct {
	Category string
}

// NewsArticle is a news post.
type NewsArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,max=255"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Author    string    `json:"author" validate:"max=120"`
	Status    string    `json:"status" validate:"oneof=draft published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

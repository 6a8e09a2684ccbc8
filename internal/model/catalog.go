package model

import "time"

// CalendarEntry is a row of the public calendar, independent of Event.
type CalendarEntry struct {
	ID        string    `json:"id"`
	Days      string    `json:"days" validate:"max=50"`
	Month     string    `json:"month" validate:"max=50"`
	Year      string    `json:"year" validate:"max=10"`
	EventName string    `json:"event_name" validate:"required,max=255"`
	Image     string    `json:"image"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// DateDisplay joins days, month and year, skipping blanks.
func (c *CalendarEntry) DateDisplay() string {
	out := ""
	for _, p := range []string{c.Days, c.Month, c.Year} {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}

// Partner is a sponsor or institutional partner.
type Partner struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=255"`
	Category    string    `json:"category" validate:"max=100"`
	Logo        string    `json:"logo"`
	Website     string    `json:"website" validate:"omitempty,url"`
	Phone       string    `json:"phone" validate:"max=50"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// Fair is a fair brand shown in the hero carousel and fairs section.
type Fair struct {
	ID             string    `json:"id"`
	Name           string    `json:"name" validate:"required,max=100"`
	FullName       string    `json:"full_name" validate:"max=255"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	HoverImage     string    `json:"hover_image"`
	IsHeroFeatured bool      `json:"is_hero_featured"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}

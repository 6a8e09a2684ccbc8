package model

import (
	"encoding/json"
	"time"
)

// Known site configuration keys.
const (
	ConfigContactInfo  = "contact_info"
	ConfigAboutInfo    = "about_info"
	ConfigCalendarFile = "calendar_file"
)

// SiteConfig is one key/value row. Value is an opaque JSON document.
type SiteConfig struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

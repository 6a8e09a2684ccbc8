// Package realtime delivers row-level change events from Postgres to
// in-process subscribers.
package realtime

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// EventType is the kind of row change.
type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// Change is one row-level change as published by the notify_change trigger.
type Change struct {
	Table           string          `json:"table"`
	Type            EventType       `json:"type"`
	Record          json.RawMessage `json:"record,omitempty"`
	OldRecord       json.RawMessage `json:"old_record,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
	// Truncated is set when the row did not fit in a NOTIFY payload. The
	// record then holds only the id and the filter and display columns.
	Truncated bool `json:"truncated,omitempty"`
}

// ParseChange decodes a trigger payload.
func ParseChange(payload []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(payload, &c); err != nil {
		return Change{}, fmt.Errorf("parse change: %w", err)
	}
	if c.Table == "" || c.Type == "" {
		return Change{}, fmt.Errorf("parse change: missing table or type")
	}
	if string(c.Record) == "null" {
		c.Record = nil
	}
	if string(c.OldRecord) == "null" {
		c.OldRecord = nil
	}
	return c, nil
}

// Field returns column of the new row, or of the old row for deletes,
// rendered as a string.
func (c Change) Field(column string) (string, bool) {
	raw := c.Record
	if len(raw) == 0 {
		raw = c.OldRecord
	}
	if len(raw) == 0 {
		return "", false
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return "", false
	}
	v, ok := row[column]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Decode unmarshals the new row into v.
func (c Change) Decode(v any) error {
	if len(c.Record) == 0 {
		return fmt.Errorf("%s %s: no record", c.Table, c.Type)
	}
	return json.Unmarshal(c.Record, v)
}

// Filter restricts a topic to rows whose Column equals Value.
type Filter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Topic selects changes of one table. Empty Events means every type.
type Topic struct {
	Table  string      `json:"table"`
	Events []EventType `json:"events,omitempty"`
	Filter *Filter     `json:"filter,omitempty"`
}

// Matches reports whether c falls within the topic.
func (t Topic) Matches(c Change) bool {
	if t.Table != c.Table {
		return false
	}
	if len(t.Events) > 0 && !slices.Contains(t.Events, c.Type) {
		return false
	}
	if t.Filter != nil {
		v, ok := c.Field(t.Filter.Column)
		if !ok || v != t.Filter.Value {
			return false
		}
	}
	return true
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// dueDateLayouts are tried in order. The zone-less forms are what an HTML
// datetime-local input submits; they are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// DueDate is a due timestamp as sent by clients
type DueDate struct {
	time.Time
}

// NewDueDate wraps t
func NewDueDate(t time.Time) *DueDate {
	return &DueDate{Time: t}
}

// UnmarshalJSON accepts RFC 3339 and local date-time strings
func (d *DueDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("dueDate must be a string: %w", err)
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid dueDate %q", s)
}

// TimePtr returns the wrapped time, or nil for a nil DueDate
func (d *DueDate) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

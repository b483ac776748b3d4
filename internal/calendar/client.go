// Package calendar reads student schedules through an MCP-style calendar
// proxy. The proxy owns the Google OAuth flow; this client only asks it to
// authenticate and fetch events within a window.
package calendar

import (
	"context"
	"time"
)

// Event is a single calendar entry, read-only from the core's perspective.
type Event struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
	StartDate   string    `json:"start_date,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Query selects events from one calendar within a time window.
type Query struct {
	CalendarID      string
	TimeMin         time.Time
	TimeMax         time.Time
	MaxResults      int
	ExpandRecurring bool
	OrderBy         string
}

// Client is the capability surface the assistant needs from the calendar
// service.
type Client interface {
	Authenticate(ctx context.Context) (bool, error)
	GetEvents(ctx context.Context, q Query) ([]Event, error)
	SearchEvents(ctx context.Context, text string, maxResults int) ([]Event, error)
}

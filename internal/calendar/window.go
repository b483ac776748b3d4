package calendar

import (
	"strings"
	"time"
)

// Window is the time range a calendar query resolves to, plus the label the
// reply uses for it.
type Window struct {
	Timeframe  string
	Min        time.Time
	Max        time.Time
	MaxResults int
}

// WindowFor picks the query window from message content: "today" and
// "tomorrow" map to the matching UTC day, "week" to the next 7 days with a
// wider result cap, everything else to a default upcoming window.
func WindowFor(message string, now time.Time) Window {
	lower := strings.ToLower(message)
	now = now.UTC()

	switch {
	case strings.Contains(lower, "today"):
		start := now.Truncate(24 * time.Hour)
		return Window{Timeframe: "today", Min: start, Max: start.Add(24 * time.Hour), MaxResults: 10}
	case strings.Contains(lower, "tomorrow"):
		start := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
		return Window{Timeframe: "tomorrow", Min: start, Max: start.Add(24 * time.Hour), MaxResults: 10}
	case strings.Contains(lower, "week"):
		return Window{Timeframe: "this week", Min: now, Max: now.Add(7 * 24 * time.Hour), MaxResults: 50}
	default:
		return Window{Timeframe: "upcoming", Min: now, Max: now.Add(7 * 24 * time.Hour), MaxResults: 10}
	}
}

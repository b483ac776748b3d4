package calendar

import (
	"fmt"
	"strings"
)

const descriptionLimit = 100

// FormatEvent renders one event as a display block: title, time range or
// all-day marker, then optional location and truncated description lines.
func FormatEvent(e Event) string {
	var b strings.Builder

	title := e.Title
	if title == "" {
		title = "No Title"
	}
	fmt.Fprintf(&b, "📅 **%s**\n", title)

	if e.AllDay {
		date := e.StartDate
		if date == "" && !e.Start.IsZero() {
			date = e.Start.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "   ⏰ All day (%s)\n", date)
	} else {
		fmt.Fprintf(&b, "   ⏰ %s - %s\n", e.Start.Format("03:04 PM"), e.End.Format("03:04 PM"))
	}

	if e.Location != "" {
		fmt.Fprintf(&b, "   📍 %s\n", e.Location)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "   📝 %s\n", truncate(e.Description, descriptionLimit))
	}

	return b.String()
}

// FormatEventList renders a counted, 1-indexed list of events.
func FormatEventList(events []Event) string {
	if len(events) == 0 {
		return "No upcoming events found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d event(s):\n\n", len(events))
	for i, e := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, FormatEvent(e))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatEventTimed(t *testing.T) {
	e := Event{
		Title:    "Algorithms Lecture",
		Start:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		Location: "Room 204",
	}
	out := FormatEvent(e)
	assert.Contains(t, out, "Algorithms Lecture")
	assert.Contains(t, out, "09:00 AM - 10:30 AM")
	assert.Contains(t, out, "Room 204")
}

func TestFormatEventAllDay(t *testing.T) {
	e := Event{Title: "Reading Day", AllDay: true, StartDate: "2026-03-06"}
	out := FormatEvent(e)
	assert.Contains(t, out, "All day (2026-03-06)")
}

func TestFormatEventTruncatesDescription(t *testing.T) {
	e := Event{
		Title:       "Office Hours",
		Start:       time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		Description: strings.Repeat("x", 150),
	}
	out := FormatEvent(e)
	assert.Contains(t, out, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 101))
}

func TestFormatEventList(t *testing.T) {
	assert.Equal(t, "No upcoming events found.", FormatEventList(nil))

	events := []Event{
		{Title: "One", Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		{Title: "Two", AllDay: true, StartDate: "2026-03-03"},
	}
	out := FormatEventList(events)
	assert.True(t, strings.HasPrefix(out, "Found 2 event(s):"), out)
	assert.Contains(t, out, "1. ")
	assert.Contains(t, out, "2. ")
}

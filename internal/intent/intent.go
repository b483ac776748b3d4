package intent

import "strings"

// Intent is the classified purpose of an inbound chat message.
type Intent string

const (
	CalendarQuery       Intent = "calendar_query"
	StoreMemory         Intent = "store_memory"
	RecallMemory        Intent = "recall_memory"
	GeneralConversation Intent = "general_conversation"
)

// Keyword sets are checked in order; the first matching category wins, so a
// message containing both a calendar and a memory keyword is a calendar query.
var (
	calendarKeywords = []string{
		"schedule", "meeting", "calendar", "event", "appointment",
		"today", "tomorrow", "this week", "next week", "when is",
	}
	storeKeywords = []string{
		"remember", "i prefer", "my favorite", "i like", "i usually",
		"note that", "keep in mind",
	}
	recallKeywords = []string{
		"what do you know about me", "what have i told you",
		"my preferences", "what do i like", "remind me",
	}
)

// Classify maps a raw message to an intent via case-insensitive substring
// membership. Total: always returns a value.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	if containsAny(lower, calendarKeywords) {
		return CalendarQuery
	}
	if containsAny(lower, storeKeywords) {
		return StoreMemory
	}
	if containsAny(lower, recallKeywords) {
		return RecallMemory
	}
	return GeneralConversation
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

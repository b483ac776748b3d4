package intent

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"What are my meetings today?", CalendarQuery},
		{"Show me my schedule for this week.", CalendarQuery},
		{"When is my next appointment?", CalendarQuery},
		{"Remember that I like mornings", StoreMemory},
		{"I prefer studying at night", StoreMemory},
		{"Note that I take breaks every 45 minutes", StoreMemory},
		{"What do you know about me?", RecallMemory},
		{"What have I told you so far?", RecallMemory},
		{"Tell me a joke", GeneralConversation},
		{"", GeneralConversation},
	}
	for _, tc := range cases {
		got := Classify(tc.message)
		if got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Calendar keywords win over memory keywords when both are present.
	if got := Classify("Remember my meeting schedule"); got != CalendarQuery {
		t.Fatalf("Classify() = %q, want %q", got, CalendarQuery)
	}
	// Store wins over recall for the same reason.
	if got := Classify("Remember my preferences"); got != StoreMemory {
		t.Fatalf("Classify() = %q, want %q", got, StoreMemory)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	if got := Classify("WHAT DO YOU KNOW ABOUT ME"); got != RecallMemory {
		t.Fatalf("Classify() = %q, want %q", got, RecallMemory)
	}
}

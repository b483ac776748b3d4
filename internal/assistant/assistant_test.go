package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzanetti/campusmate/internal/calendar"
	"github.com/mzanetti/campusmate/internal/conversation"
	"github.com/mzanetti/campusmate/internal/fault"
	"github.com/mzanetti/campusmate/internal/llm"
	"github.com/mzanetti/campusmate/internal/mem0"
	"github.com/mzanetti/campusmate/internal/observability"
)

var metricsSeq atomic.Int64

func newTestMetrics() *observability.Metrics {
	return observability.NewMetrics(fmt.Sprintf("test_assistant_%d", metricsSeq.Add(1)))
}

func newTestAssistant(cal calendar.Client, generator llm.Client) (*Assistant, conversation.Store, *mem0.MockClient) {
	store := conversation.NewInMemoryStore()
	memory := mem0.NewMockClient()
	if cal == nil {
		cal = calendar.NewMockClient()
	}
	a := New(store, memory, cal, generator, newTestMetrics(), nil, Options{})
	return a, store, memory
}

func TestHandleAppendsExactlyTwoTurns(t *testing.T) {
	a, store, _ := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	reply := a.Handle(ctx, "u1", "Tell me a joke")
	require.NotEmpty(t, reply)

	history, err := store.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, conversation.RoleUser, history[0].Role)
	assert.Equal(t, "Tell me a joke", history[0].Content)
	assert.Equal(t, conversation.RoleAssistant, history[1].Role)
	assert.Equal(t, reply, history[1].Content)
}

func TestHandleIsolatesUserSequences(t *testing.T) {
	a, store, _ := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	a.Handle(ctx, "u1", "I prefer mornings")
	a.Handle(ctx, "u2", "I prefer evenings")

	h1, _ := store.History(ctx, "u1")
	h2, _ := store.History(ctx, "u2")
	require.NotEmpty(t, h1)
	require.NotEmpty(t, h2)
	for _, turn := range h1 {
		assert.NotContains(t, turn.Content, "evenings")
	}
	for _, turn := range h2 {
		assert.NotContains(t, turn.Content, "mornings")
	}
}

func TestHandleConcurrentUsersIsolated(t *testing.T) {
	a, store, _ := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			a.Handle(ctx, user, fmt.Sprintf("hello from %d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		history, err := store.History(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
		assert.Len(t, history, 2)
	}
}

func TestCalendarAuthFailureShortCircuits(t *testing.T) {
	cal := calendar.NewMockClient()
	cal.AuthOK = false
	a, _, _ := newTestAssistant(cal, llm.NewMockClient())

	reply := a.Handle(context.Background(), "u1", "What are my meetings today?")
	assert.Equal(t, replyCalendarApology, reply)
	assert.Equal(t, 1, cal.AuthCalls)
	assert.Equal(t, 0, cal.GetCalls, "auth failure must not reach GetEvents")
}

func TestCalendarQueryEmptySchedule(t *testing.T) {
	cal := calendar.NewMockClient()
	a, _, _ := newTestAssistant(cal, llm.NewMockClient())

	reply := a.Handle(context.Background(), "u1", "What are my meetings today?")
	assert.Equal(t, "You don't have any events scheduled for today. Your schedule is clear!", reply)
	assert.Equal(t, 10, cal.LastQuery.MaxResults)
}

func TestCalendarQueryFormatsEventsAndHint(t *testing.T) {
	cal := calendar.NewMockClient(calendar.Event{
		Title: "Algorithms Lecture",
		Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	})
	a, _, memory := newTestAssistant(cal, llm.NewMockClient())
	ctx := context.Background()

	_, err := memory.Add(ctx, "u1", "Prefers a study schedule with morning blocks", nil)
	require.NoError(t, err)

	reply := a.Handle(ctx, "u1", "Show me my schedule for this week")
	assert.True(t, strings.HasPrefix(reply, "Here are your events for this week:"), reply)
	assert.Contains(t, reply, "Found 1 event(s):")
	assert.Contains(t, reply, "Algorithms Lecture")
	assert.Contains(t, reply, "Based on your preferences: Prefers a study schedule with morning blocks")
	assert.Equal(t, 50, cal.LastQuery.MaxResults)
}

func TestCalendarQueryAuthenticatesLazilyOnce(t *testing.T) {
	cal := calendar.NewMockClient()
	a, _, _ := newTestAssistant(cal, llm.NewMockClient())
	ctx := context.Background()

	a.Handle(ctx, "u1", "What are my meetings today?")
	a.Handle(ctx, "u1", "What about tomorrow?")
	assert.Equal(t, 1, cal.AuthCalls)
	assert.Equal(t, 2, cal.GetCalls)
}

func TestCalendarFetchFailureIsDiagnosed(t *testing.T) {
	cal := calendar.NewMockClient()
	cal.EventsErr = fault.External("calendar", errors.New("proxy down"))
	a, _, _ := newTestAssistant(cal, llm.NewMockClient())

	reply := a.Handle(context.Background(), "u1", "What are my meetings today?")
	assert.Contains(t, reply, "I encountered an error while accessing your calendar:")
	assert.Contains(t, reply, "proxy down")
}

func TestStoreMemoryProducesTwoPartReply(t *testing.T) {
	a, _, memory := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	reply := a.Handle(ctx, "u1", "Remember that I like mornings")
	parts := strings.SplitN(reply, "\n\n", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, replyMemorySaved, parts[0])
	assert.Equal(t, "I heard you: Remember that I like mornings", parts[1])

	records, err := memory.GetAll(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Remember that I like mornings", records[0].Text)
	assert.Equal(t, "user_preference", records[0].Metadata["category"])
	assert.Equal(t, "conversation", records[0].Metadata["source"])
}

func TestRecallMemoryListsStoredRecords(t *testing.T) {
	a, _, memory := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	_, _ = memory.Add(ctx, "u1", "Likes mornings", nil)
	_, _ = memory.Add(ctx, "u1", "Takes breaks every 45 minutes", nil)

	reply := a.Handle(ctx, "u1", "What do you know about me?")
	assert.Contains(t, reply, "1. Likes mornings")
	assert.Contains(t, reply, "2. Takes breaks every 45 minutes")
	assert.Contains(t, reply, "Is there anything else you'd like me to know?")
}

func TestRecallMemoryWithNothingStored(t *testing.T) {
	a, _, _ := newTestAssistant(nil, llm.NewMockClient())
	reply := a.Handle(context.Background(), "u1", "What do you know about me?")
	assert.Equal(t, replyNoMemories, reply)
}

func TestGeneralConversationWithoutLLM(t *testing.T) {
	a, store, _ := newTestAssistant(nil, nil)
	ctx := context.Background()

	reply := a.Handle(ctx, "u1", "Tell me a joke")
	assert.Equal(t, replyLLMUnavailable, reply)

	// The exchange is still recorded.
	history, _ := store.History(ctx, "u1")
	assert.Len(t, history, 2)
}

func TestGeneralConversationUsesMemoryContext(t *testing.T) {
	rec := &recordingLLM{reply: "ok"}
	a, _, memory := newTestAssistant(nil, rec)
	ctx := context.Background()

	_, _ = memory.Add(ctx, "u1", "Enjoys studying graph algorithms", nil)
	a.Handle(ctx, "u1", "Suggest some algorithms practice")

	require.NotEmpty(t, rec.messages)
	assert.Equal(t, llm.RoleSystem, rec.messages[0].Role)
	assert.Contains(t, rec.messages[0].Content, "Relevant information about the user:")
	assert.Contains(t, rec.messages[0].Content, "- Enjoys studying graph algorithms")
	assert.Equal(t, "Suggest some algorithms practice", rec.messages[len(rec.messages)-1].Content)
}

func TestGeneralConversationLimitsHistoryWindow(t *testing.T) {
	rec := &recordingLLM{reply: "ok"}
	a, _, _ := newTestAssistant(nil, rec)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		a.Handle(ctx, "u1", fmt.Sprintf("message %d", i))
	}

	// system + last 5 history turns + current message.
	assert.Len(t, rec.messages, 7)
}

func TestResetConversationClearsStatistics(t *testing.T) {
	a, _, _ := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	a.Handle(ctx, "u1", "hello there")
	stats := a.GetStatistics(ctx, "u1")
	assert.Equal(t, 2, stats.TotalMessages)
	require.NotNil(t, stats.ConversationStarted)
	require.NotNil(t, stats.LastInteraction)
	assert.False(t, stats.LastInteraction.Before(*stats.ConversationStarted))

	require.NoError(t, a.ResetConversation(ctx, "u1"))
	stats = a.GetStatistics(ctx, "u1")
	assert.Equal(t, 0, stats.TotalMessages)
	assert.Nil(t, stats.ConversationStarted)
	assert.Nil(t, stats.LastInteraction)
}

func TestStatisticsCountsStoredMemories(t *testing.T) {
	a, _, memory := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	_, _ = memory.Add(ctx, "u1", "a", nil)
	_, _ = memory.Add(ctx, "u1", "b", nil)

	stats := a.GetStatistics(ctx, "u1")
	assert.Equal(t, 2, stats.StoredMemories)
}

func TestHandleRedactsPIIBeforePersisting(t *testing.T) {
	a, store, _ := newTestAssistant(nil, llm.NewMockClient())
	ctx := context.Background()

	a.Handle(ctx, "u1", "Tell my tutor my email is sam@example.edu")
	history, _ := store.History(ctx, "u1")
	require.NotEmpty(t, history)
	assert.Contains(t, history[0].Content, "[REDACTED_EMAIL]")
	assert.True(t, history[0].Redacted)
}

// recordingLLM captures the composed prompt for assertions.
type recordingLLM struct {
	mu       sync.Mutex
	messages []llm.Message
	reply    string
}

func (r *recordingLLM) Complete(_ context.Context, messages []llm.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = messages
	return r.reply, nil
}

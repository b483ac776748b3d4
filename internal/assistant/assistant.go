// Package assistant routes chat messages to the calendar, memory, or
// language-model handlers and maintains per-user conversation history.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/mzanetti/campusmate/internal/calendar"
	"github.com/mzanetti/campusmate/internal/conversation"
	"github.com/mzanetti/campusmate/internal/fault"
	"github.com/mzanetti/campusmate/internal/intent"
	"github.com/mzanetti/campusmate/internal/llm"
	"github.com/mzanetti/campusmate/internal/mem0"
	"github.com/mzanetti/campusmate/internal/observability"
	"github.com/mzanetti/campusmate/internal/policy"
)

// Options bound the context windows used when composing replies.
type Options struct {
	HistoryWindow     int
	MemorySearchLimit int
	MemoryRecallLimit int
	MaxCalendarEvents int
}

func (o Options) withDefaults() Options {
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = 5
	}
	if o.MemorySearchLimit <= 0 {
		o.MemorySearchLimit = 3
	}
	if o.MemoryRecallLimit <= 0 {
		o.MemoryRecallLimit = 10
	}
	if o.MaxCalendarEvents <= 0 {
		o.MaxCalendarEvents = 50
	}
	return o
}

// Assistant dispatches classified messages to handlers and owns the turn
// append invariant: every handled message appends a user turn before
// dispatch and an assistant turn after, to the same user's log.
type Assistant struct {
	store    conversation.Store
	memory   mem0.Client
	calendar calendar.Client
	llm      llm.Client
	metrics  *observability.Metrics
	logger   *charmlog.Logger
	opts     Options

	authMu        sync.Mutex
	authenticated bool

	now func() time.Time
}

func New(
	store conversation.Store,
	memory mem0.Client,
	cal calendar.Client,
	generator llm.Client,
	metrics *observability.Metrics,
	logger *charmlog.Logger,
	opts Options,
) *Assistant {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Assistant{
		store:    store,
		memory:   memory,
		calendar: cal,
		llm:      generator,
		metrics:  metrics,
		logger:   logger,
		opts:     opts.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one inbound message and returns the reply. External
// failures are converted to user-facing strings; Handle never returns an
// error to its caller.
func (a *Assistant) Handle(ctx context.Context, userID, message string) string {
	started := a.now()

	a.appendTurn(ctx, userID, conversation.RoleUser, message)

	kind := intent.Classify(message)
	a.metrics.MessagesHandled.WithLabelValues(string(kind)).Inc()

	var reply string
	switch kind {
	case intent.CalendarQuery:
		reply = a.handleCalendarQuery(ctx, userID, message)
	case intent.StoreMemory:
		ack := a.handleMemoryStorage(ctx, userID, message)
		reply = ack + "\n\n" + a.generateReply(ctx, userID, message)
	case intent.RecallMemory:
		reply = a.handleMemoryRecall(ctx, userID)
	default:
		reply = a.generateReply(ctx, userID, message)
	}

	a.appendTurn(ctx, userID, conversation.RoleAssistant, reply)
	a.metrics.ObserveHandleLatency(a.now().Sub(started))

	return reply
}

// ResetConversation truncates the user's conversation log.
func (a *Assistant) ResetConversation(ctx context.Context, userID string) error {
	if err := a.store.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset conversation for %s: %w", userID, err)
	}
	a.logger.Info("conversation reset", "user_id", userID)
	return nil
}

func (a *Assistant) appendTurn(ctx context.Context, userID string, role conversation.Role, content string) {
	redacted, changed := policy.RedactPII(content)
	turn := conversation.Turn{
		UserID:    userID,
		Role:      role,
		Content:   redacted,
		Redacted:  changed,
		CreatedAt: a.now(),
	}
	if err := a.store.Append(ctx, turn); err != nil {
		// History is best-effort; a store failure must not kill the exchange.
		a.logger.Error("append turn failed", "user_id", userID, "role", role, "err", err)
	}
}

func (a *Assistant) handleCalendarQuery(ctx context.Context, userID, message string) string {
	if ok, err := a.ensureAuthenticated(ctx); err != nil {
		a.recordClientError(err)
		return fmt.Sprintf(errCalendarFormat, err)
	} else if !ok {
		return replyCalendarApology
	}

	window := calendar.WindowFor(message, a.now())
	if window.MaxResults > a.opts.MaxCalendarEvents {
		window.MaxResults = a.opts.MaxCalendarEvents
	}
	events, err := a.calendar.GetEvents(ctx, calendar.Query{
		TimeMin:         window.Min,
		TimeMax:         window.Max,
		MaxResults:      window.MaxResults,
		ExpandRecurring: true,
		OrderBy:         "startTime",
	})
	if err != nil {
		a.recordClientError(err)
		return fmt.Sprintf(errCalendarFormat, err)
	}

	if len(events) == 0 {
		return fmt.Sprintf("You don't have any events scheduled for %s. Your schedule is clear!", window.Timeframe)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are your events for %s:\n\n", window.Timeframe)
	b.WriteString(calendar.FormatEventList(events))

	// Preference hint is best-effort; a memory failure must not discard a
	// good event list.
	hints, err := a.memory.Search(ctx, userID, "study schedule preference", 1)
	if err != nil {
		a.recordClientError(err)
		a.logger.Warn("preference hint lookup failed", "user_id", userID, "err", err)
	} else if len(hints) > 0 {
		fmt.Fprintf(&b, "\n💡 Based on your preferences: %s", hints[0].Text)
	}

	return b.String()
}

func (a *Assistant) ensureAuthenticated(ctx context.Context) (bool, error) {
	a.authMu.Lock()
	defer a.authMu.Unlock()
	if a.authenticated {
		return true, nil
	}

	ok, err := a.calendar.Authenticate(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	a.authenticated = true
	return true, nil
}

func (a *Assistant) handleMemoryStorage(ctx context.Context, userID, message string) string {
	result, err := a.memory.Add(ctx, userID, message, map[string]string{
		"category": "user_preference",
		"source":   "conversation",
	})
	if err != nil {
		a.recordClientError(err)
		return fmt.Sprintf(errStoreFormat, err)
	}
	if !result.Success {
		return replyMemoryRetry
	}
	a.logger.Debug("memory stored", "user_id", userID, "memory_id", result.ID)
	return replyMemorySaved
}

func (a *Assistant) handleMemoryRecall(ctx context.Context, userID string) string {
	records, err := a.memory.GetAll(ctx, userID, a.opts.MemoryRecallLimit)
	if err != nil {
		a.recordClientError(err)
		return fmt.Sprintf(errRecallFormat, err)
	}
	if len(records) == 0 {
		return replyNoMemories
	}

	var b strings.Builder
	b.WriteString(replyRecallHeader)
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Text)
	}
	b.WriteString(replyRecallFooter)
	return b.String()
}

func (a *Assistant) generateReply(ctx context.Context, userID, message string) string {
	if a.llm == nil {
		return replyLLMUnavailable
	}

	memories, err := a.memory.Search(ctx, userID, message, a.opts.MemorySearchLimit)
	if err != nil {
		a.recordClientError(err)
		return fmt.Sprintf(errGenerateFormat, err)
	}

	system := systemPrompt
	if len(memories) > 0 {
		var b strings.Builder
		b.WriteString(system)
		b.WriteString("\n\nRelevant information about the user:\n")
		for _, rec := range memories {
			fmt.Fprintf(&b, "- %s\n", rec.Text)
		}
		system = b.String()
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}

	recent, err := a.store.Recent(ctx, userID, a.opts.HistoryWindow+1)
	if err != nil {
		a.logger.Warn("history lookup failed", "user_id", userID, "err", err)
	}
	// Recent includes the turn Handle already appended for this message;
	// drop it so the prompt carries the current message exactly once.
	if n := len(recent); n > 0 && recent[n-1].Role == conversation.RoleUser {
		if redacted, _ := policy.RedactPII(message); recent[n-1].Content == redacted {
			recent = recent[:n-1]
		}
	}
	for _, turn := range recent {
		switch turn.Role {
		case conversation.RoleUser, conversation.RoleAssistant:
			messages = append(messages, llm.Message{Role: string(turn.Role), Content: turn.Content})
		}
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	out, err := a.llm.Complete(ctx, messages)
	if err != nil {
		a.recordClientError(err)
		return fmt.Sprintf(errGenerateFormat, err)
	}
	return out
}

func (a *Assistant) recordClientError(err error) {
	a.metrics.ExternalClientErrors.WithLabelValues(fault.ClientOf(err), string(fault.KindOf(err))).Inc()
}

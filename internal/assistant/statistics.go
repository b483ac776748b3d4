package assistant

import (
	"context"
	"time"
)

// Statistics summarizes a user's interaction history.
type Statistics struct {
	TotalMessages       int        `json:"total_messages"`
	StoredMemories      int        `json:"stored_memories"`
	ConversationStarted *time.Time `json:"conversation_started,omitempty"`
	LastInteraction     *time.Time `json:"last_interaction,omitempty"`
}

// GetStatistics reports turn counts and stored-memory counts for a user.
// Timestamps are absent while the conversation log is empty.
func (a *Assistant) GetStatistics(ctx context.Context, userID string) Statistics {
	stats := Statistics{}

	history, err := a.store.History(ctx, userID)
	if err != nil {
		a.logger.Warn("history lookup failed", "user_id", userID, "err", err)
	}
	stats.TotalMessages = len(history)
	if len(history) > 0 {
		first := history[0].CreatedAt
		last := history[len(history)-1].CreatedAt
		stats.ConversationStarted = &first
		stats.LastInteraction = &last
	}

	records, err := a.memory.GetAll(ctx, userID, a.opts.MemoryRecallLimit)
	if err != nil {
		a.recordClientError(err)
		a.logger.Warn("memory count lookup failed", "user_id", userID, "err", err)
	}
	stats.StoredMemories = len(records)

	return stats
}

// DeleteMemories removes every stored memory for a user.
func (a *Assistant) DeleteMemories(ctx context.Context, userID string) error {
	if err := a.memory.DeleteAll(ctx, userID); err != nil {
		a.recordClientError(err)
		return err
	}
	a.logger.Info("memories deleted", "user_id", userID)
	return nil
}

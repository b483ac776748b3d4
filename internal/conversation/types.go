package conversation

import (
	"context"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a user's conversation log. Immutable once appended.
type Turn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Redacted  bool      `json:"redacted"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists per-user conversation logs. Each user's log is an ordered,
// append-only sequence; Reset truncates it to empty.
type Store interface {
	Append(ctx context.Context, turn Turn) error
	History(ctx context.Context, userID string) ([]Turn, error)
	Recent(ctx context.Context, userID string, limit int) ([]Turn, error)
	Reset(ctx context.Context, userID string) error
	Close() error
}

// Package mem0 talks to a Mem0-compatible semantic memory service. The core
// treats records as opaque: it stores raw preference text and reads back the
// text field for display; embedding and ranking happen server-side.
package mem0

import (
	"context"
	"time"
)

// Record is one stored memory as returned by the service.
type Record struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// AddResult reports the outcome of an add operation.
type AddResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// Client is the capability surface the assistant needs from the memory
// service. Search results are ranked by semantic relevance to the query.
type Client interface {
	Add(ctx context.Context, userID, text string, metadata map[string]string) (AddResult, error)
	GetAll(ctx context.Context, userID string, limit int) ([]Record, error)
	Search(ctx context.Context, userID, query string, limit int) ([]Record, error)
	DeleteAll(ctx context.Context, userID string) error
	Configured() bool
}

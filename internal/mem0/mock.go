package mem0

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockClient is a deterministic in-process memory service for local/dev use
// and tests. Search ranks by naive token overlap with the query.
type MockClient struct {
	mu      sync.RWMutex
	records map[string][]Record
}

func NewMockClient() *MockClient {
	return &MockClient{records: make(map[string][]Record)}
}

func (c *MockClient) Configured() bool { return true }

func (c *MockClient) Add(_ context.Context, userID, text string, metadata map[string]string) (AddResult, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Text:      text,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	c.mu.Lock()
	c.records[userID] = append(c.records[userID], rec)
	c.mu.Unlock()
	return AddResult{Success: true, ID: rec.ID}, nil
}

func (c *MockClient) GetAll(_ context.Context, userID string, limit int) ([]Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	arr := c.records[userID]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]Record, limit)
	copy(out, arr[:limit])
	return out, nil
}

func (c *MockClient) Search(_ context.Context, userID, query string, limit int) ([]Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := strings.Fields(strings.ToLower(query))
	type scored struct {
		rec   Record
		score int
	}
	var matches []scored
	for _, rec := range c.records[userID] {
		lower := strings.ToLower(rec.Text)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{rec: rec, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	out := make([]Record, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, m.rec)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (c *MockClient) DeleteAll(_ context.Context, userID string) error {
	c.mu.Lock()
	delete(c.records, userID)
	c.mu.Unlock()
	return nil
}

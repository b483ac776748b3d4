package calendar

import (
	"context"
	"strings"
	"sync"
)

// MockClient serves canned events for tests and local development.
type MockClient struct {
	mu        sync.Mutex
	AuthOK    bool
	AuthErr   error
	Events    []Event
	EventsErr error
	AuthCalls int
	GetCalls  int
	LastQuery Query
}

func NewMockClient(events ...Event) *MockClient {
	return &MockClient{AuthOK: true, Events: events}
}

func (c *MockClient) Authenticate(_ context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AuthCalls++
	if c.AuthErr != nil {
		return false, c.AuthErr
	}
	return c.AuthOK, nil
}

func (c *MockClient) GetEvents(_ context.Context, q Query) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	c.LastQuery = q
	if c.EventsErr != nil {
		return nil, c.EventsErr
	}
	out := c.Events
	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}
	return out, nil
}

func (c *MockClient) SearchEvents(_ context.Context, text string, maxResults int) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.EventsErr != nil {
		return nil, c.EventsErr
	}
	var out []Event
	lower := strings.ToLower(text)
	for _, e := range c.Events {
		if strings.Contains(strings.ToLower(e.Title), lower) {
			out = append(out, e)
		}
		if maxResults > 0 && len(out) == maxResults {
			break
		}
	}
	return out, nil
}

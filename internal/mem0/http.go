package mem0

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mzanetti/campusmate/internal/fault"
)

const clientName = "mem0"

// HTTPClient talks to the Mem0 REST API.
type HTTPClient struct {
	client *resty.Client
	apiKey string
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(strings.TrimSpace(baseURL), "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(apiKey) != "" {
		client.SetHeader("Authorization", "Token "+strings.TrimSpace(apiKey))
	}
	return &HTTPClient{client: client, apiKey: strings.TrimSpace(apiKey)}
}

func (c *HTTPClient) Configured() bool { return c.apiKey != "" }

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type addRequest struct {
	Messages []wireMessage     `json:"messages"`
	UserID   string            `json:"user_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// wireRecord is the service-side record shape; the stored text comes back
// under "memory".
type wireRecord struct {
	ID        string            `json:"id"`
	Memory    string            `json:"memory"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt string            `json:"created_at"`
}

type addResponse struct {
	Results []wireRecord `json:"results"`
}

type listResponse struct {
	Results []wireRecord `json:"results"`
}

type searchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

func (c *HTTPClient) Add(ctx context.Context, userID, text string, metadata map[string]string) (AddResult, error) {
	if !c.Configured() {
		return AddResult{}, fault.New(fault.KindConfigurationMissing, clientName, fmt.Errorf("MEM0_API_KEY is not set"))
	}

	var out addResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(addRequest{
			Messages: []wireMessage{{Role: "user", Content: text}},
			UserID:   userID,
			Metadata: metadata,
		}).
		SetResult(&out).
		Post("/v1/memories/")
	if err != nil {
		return AddResult{}, fault.External(clientName, fmt.Errorf("add memory: %w", err))
	}
	if resp.IsError() {
		return AddResult{}, fault.External(clientName, fmt.Errorf("add memory: status %d: %s", resp.StatusCode(), resp.String()))
	}

	result := AddResult{Success: true}
	if len(out.Results) > 0 {
		result.ID = out.Results[0].ID
	}
	return result, nil
}

func (c *HTTPClient) GetAll(ctx context.Context, userID string, limit int) ([]Record, error) {
	if !c.Configured() {
		return nil, nil
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", userID)
	if limit > 0 {
		req.SetQueryParam("limit", fmt.Sprintf("%d", limit))
	}

	var out listResponse
	resp, err := req.SetResult(&out).Get("/v1/memories/")
	if err != nil {
		return nil, fault.External(clientName, fmt.Errorf("get memories: %w", err))
	}
	if resp.IsError() {
		return nil, fault.External(clientName, fmt.Errorf("get memories: status %d: %s", resp.StatusCode(), resp.String()))
	}

	return fromWire(out.Results, limit), nil
}

func (c *HTTPClient) Search(ctx context.Context, userID, query string, limit int) ([]Record, error) {
	if !c.Configured() {
		return nil, nil
	}

	var out listResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(searchRequest{Query: query, UserID: userID, Limit: limit}).
		SetResult(&out).
		Post("/v1/memories/search/")
	if err != nil {
		return nil, fault.External(clientName, fmt.Errorf("search memories: %w", err))
	}
	if resp.IsError() {
		return nil, fault.External(clientName, fmt.Errorf("search memories: status %d: %s", resp.StatusCode(), resp.String()))
	}

	return fromWire(out.Results, limit), nil
}

func (c *HTTPClient) DeleteAll(ctx context.Context, userID string) error {
	if !c.Configured() {
		return fault.New(fault.KindConfigurationMissing, clientName, fmt.Errorf("MEM0_API_KEY is not set"))
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", userID).
		Delete("/v1/memories/")
	if err != nil {
		return fault.External(clientName, fmt.Errorf("delete memories: %w", err))
	}
	if resp.IsError() {
		return fault.External(clientName, fmt.Errorf("delete memories: status %d: %s", resp.StatusCode(), resp.String()))
	}
	return nil
}

func fromWire(records []wireRecord, limit int) []Record {
	if len(records) == 0 {
		return nil
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		rec := Record{ID: r.ID, Text: r.Memory, Metadata: r.Metadata}
		if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	return out
}

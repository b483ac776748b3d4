package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mzanetti/campusmate/internal/fault"
)

const clientName = "calendar"

// HTTPClient forwards calendar operations to the configured proxy.
type HTTPClient struct {
	baseURL    string
	calendarID string
	client     *http.Client
}

func NewHTTPClient(baseURL, calendarID string) *HTTPClient {
	if strings.TrimSpace(calendarID) == "" {
		calendarID = "primary"
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		calendarID: calendarID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type authResponse struct {
	Authenticated bool `json:"authenticated"`
}

// wireEvent mirrors the Google event shape the proxy exposes. Timed events
// carry start.dateTime/end.dateTime; all-day events carry start.date only.
type wireEvent struct {
	Summary     string `json:"summary"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Start       struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"end"`
}

type eventsResponse struct {
	Items []wireEvent `json:"items"`
}

func (c *HTTPClient) Authenticate(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/google", nil)
	if err != nil {
		return false, fault.New(fault.KindAuthentication, clientName, fmt.Errorf("create request: %w", err))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return false, fault.New(fault.KindAuthentication, clientName, fmt.Errorf("send request: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return false, fault.New(fault.KindAuthentication, clientName, fmt.Errorf("status %d: %s", res.StatusCode, string(body)))
	}

	var out authResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, fault.New(fault.KindAuthentication, clientName, fmt.Errorf("decode response: %w", err))
	}
	return out.Authenticated, nil
}

func (c *HTTPClient) GetEvents(ctx context.Context, q Query) ([]Event, error) {
	params := url.Values{}
	params.Set("calendar_id", c.calendarID)
	if q.CalendarID != "" {
		params.Set("calendar_id", q.CalendarID)
	}
	if !q.TimeMin.IsZero() {
		params.Set("time_min", q.TimeMin.UTC().Format(time.RFC3339))
	}
	if !q.TimeMax.IsZero() {
		params.Set("time_max", q.TimeMax.UTC().Format(time.RFC3339))
	}
	if q.MaxResults > 0 {
		params.Set("max_results", strconv.Itoa(q.MaxResults))
	}
	params.Set("single_events", strconv.FormatBool(q.ExpandRecurring))
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}

	return c.fetchEvents(ctx, "/v1/calendar/events?"+params.Encode())
}

func (c *HTTPClient) SearchEvents(ctx context.Context, text string, maxResults int) ([]Event, error) {
	params := url.Values{}
	params.Set("calendar_id", c.calendarID)
	params.Set("query", text)
	params.Set("time_min", time.Now().UTC().Format(time.RFC3339))
	if maxResults > 0 {
		params.Set("max_results", strconv.Itoa(maxResults))
	}
	params.Set("single_events", "true")
	params.Set("order_by", "startTime")

	return c.fetchEvents(ctx, "/v1/calendar/events/search?"+params.Encode())
}

func (c *HTTPClient) fetchEvents(ctx context.Context, path string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fault.External(clientName, fmt.Errorf("create request: %w", err))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fault.External(clientName, fmt.Errorf("send request: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fault.External(clientName, fmt.Errorf("status %d: %s", res.StatusCode, string(body)))
	}

	var out eventsResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fault.External(clientName, fmt.Errorf("decode response: %w", err))
	}

	events := make([]Event, 0, len(out.Items))
	for _, item := range out.Items {
		events = append(events, fromWireEvent(item))
	}
	return events, nil
}

func fromWireEvent(w wireEvent) Event {
	e := Event{
		Title:       w.Summary,
		Location:    w.Location,
		Description: w.Description,
	}
	if e.Title == "" {
		e.Title = "No Title"
	}

	if w.Start.DateTime != "" {
		if ts, err := time.Parse(time.RFC3339, w.Start.DateTime); err == nil {
			e.Start = ts
		}
		if ts, err := time.Parse(time.RFC3339, w.End.DateTime); err == nil {
			e.End = ts
		}
		return e
	}

	e.AllDay = true
	e.StartDate = w.Start.Date
	return e
}

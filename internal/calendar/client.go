package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"coursecal/internal/domain"
)

// Config holds calendar HTTP client configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPClient implements Client against a JSON calendar API. Retrying
// transient failures is the executor's job; this client only performs
// and classifies single attempts.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		logger:  logger.With("component", "calendar"),
	}
}

type wireEvent struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	AllDay      bool      `json:"all_day"`
}

type listResponse struct {
	Events []wireEvent `json:"events"`
}

func (c *HTTPClient) CreateEvent(ctx context.Context, calendarID string, p EventPayload) (string, error) {
	var out wireEvent
	err := c.do(ctx, "create", http.MethodPost,
		fmt.Sprintf("/calendars/%s/events", url.PathEscape(calendarID)),
		toWire("", p), &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &domain.CalendarError{Op: "create", Kind: domain.CalendarErrPermanent,
			Err: errors.New("provider returned no event id")}
	}
	return out.ID, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, calendarID, eventID string, p EventPayload) error {
	return c.do(ctx, "update", http.MethodPut,
		fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID)),
		toWire(eventID, p), nil)
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return c.do(ctx, "delete", http.MethodDelete,
		fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID)),
		nil, nil)
}

func (c *HTTPClient) GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error) {
	var out wireEvent
	err := c.do(ctx, "get", http.MethodGet,
		fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID)),
		nil, &out)
	if err != nil {
		return nil, err
	}
	ev := fromWire(out)
	return &ev, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	path := fmt.Sprintf("/calendars/%s/events?from=%s&to=%s",
		url.PathEscape(calendarID),
		url.QueryEscape(from.UTC().Format(time.RFC3339)),
		url.QueryEscape(to.UTC().Format(time.RFC3339)),
	)
	var out listResponse
	if err := c.do(ctx, "list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(out.Events))
	for _, w := range out.Events {
		events = append(events, fromWire(w))
	}
	return events, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &domain.CalendarError{Op: op, Kind: domain.CalendarErrPermanent, Err: err}
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.CalendarError{Op: op, Kind: domain.CalendarErrPermanent, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failures and timeouts are retry-eligible.
		return &domain.CalendarError{Op: op, Kind: domain.CalendarErrTransient, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &domain.CalendarError{
			Op:     op,
			Kind:   classifyStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %d", resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.CalendarError{Op: op, Kind: domain.CalendarErrPermanent, Status: resp.StatusCode,
				Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// classifyStatus separates retry-eligible failures (rate limiting,
// server errors) from permanent ones (bad payload, permission denied).
func classifyStatus(status int) domain.CalendarErrorKind {
	if status == http.StatusTooManyRequests || status >= 500 {
		return domain.CalendarErrTransient
	}
	return domain.CalendarErrPermanent
}

func toWire(id string, p EventPayload) wireEvent {
	return wireEvent{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Start:       p.Start,
		AllDay:      p.AllDay,
	}
}

func fromWire(w wireEvent) Event {
	return Event{
		ID: w.ID,
		Payload: EventPayload{
			Title:       w.Title,
			Description: w.Description,
			Start:       w.Start,
			AllDay:      w.AllDay,
		},
	}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"anbargar/internal/catalog"
	"anbargar/internal/model"
)

// ErrEventNotFound is returned by GetEvent when the referenced event does
// not exist. Receipt generation treats it as fatal.
var ErrEventNotFound = errors.New("event not found")

// APIError is a structured error response from the data service. Detail is
// the human-readable message to surface to the operator.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client talks to the external catalog and event service over HTTP+JSON with
// a bearer token. No automatic retries: failed calls are reported once and
// the operator re-triggers explicitly.
type Client struct {
	base  string
	token string
	hc    *http.Client
}

func New(base string, token string) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		hc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken replaces the bearer token (used after session bootstrap).
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// SessionToken bootstraps the bearer token from the current session.
func (c *Client) SessionToken(ctx context.Context) (string, error) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/session-token/", nil, &payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

func (c *Client) ListItems(ctx context.Context) ([]model.CanonicalItem, error) {
	var items []model.CanonicalItem
	if err := c.do(ctx, http.MethodGet, "/api/items/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders/", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers/", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Snapshot fetches the full catalog in one load cycle.
func (c *Client) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	items, err := c.ListItems(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("list items: %w", err)
	}
	folders, err := c.ListFolders(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("list folders: %w", err)
	}
	customers, err := c.ListCustomers(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("list customers: %w", err)
	}
	return catalog.Snapshot{Items: items, Folders: folders, Customers: customers}, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]model.MovementEvent, error) {
	var events []model.MovementEvent
	if err := c.do(ctx, http.MethodGet, "/api/events/", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches one event including its line items.
func (c *Client) GetEvent(ctx context.Context, id string) (*model.MovementEvent, error) {
	var ev model.MovementEvent
	err := c.do(ctx, http.MethodGet, "/api/events/"+id+"/", nil, &ev)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// EventWithDetail returns the event with its line items, fetching the detail
// endpoint when the summary omits them. On fetch failure it falls back to
// the already-known summary rather than retrying.
func (c *Client) EventWithDetail(ctx context.Context, ev *model.MovementEvent) *model.MovementEvent {
	if ev.HasLineDetail() {
		return ev
	}
	detail, err := c.GetEvent(ctx, ev.ID)
	if err != nil {
		return ev
	}
	return detail
}

// SubmitEvent posts a validated event and returns the created event.
func (c *Client) SubmitEvent(ctx context.Context, ev *model.MovementEvent) (*model.MovementEvent, error) {
	var created model.MovementEvent
	if err := c.do(ctx, http.MethodPost, "/api/events/", ev, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

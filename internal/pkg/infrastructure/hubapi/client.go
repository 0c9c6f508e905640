package hubapi

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
)

const defaultTimeout = 30 * time.Second

var (
	ErrUnauthorized = errors.New("hub rejected the access token")
	ErrNotFound     = errors.New("not found")
)

// EntityStateSnapshot is one row of GET /api/states.
type EntityStateSnapshot struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

//go:generate moq -rm -out client_mock.go . Client
type Client interface {
	// CreateAutomation creates or replaces the automation config with the
	// given id. The config is the automation YAML rendered as JSON.
	CreateAutomation(ctx context.Context, automationID string, config map[string]any) error
	DeleteAutomation(ctx context.Context, automationID string) error
	CallService(ctx context.Context, domain, service string, payload map[string]any) error
	GetStates(ctx context.Context) ([]EntityStateSnapshot, error)

	// TriggerAutomation fires the automation through the service endpoint.
	TriggerAutomation(ctx context.Context, automationID string) error
	// ListAutomationIDs lists automation entity ids from the state snapshot,
	// used as a discovery fallback and by cleanup verification.
	ListAutomationIDs(ctx context.Context) ([]string, error)
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) Client {
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *client) CreateAutomation(ctx context.Context, automationID string, config map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, "/api/config/automation/config/"+automationID, config)
	return err
}

func (c *client) DeleteAutomation(ctx context.Context, automationID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/config/automation/config/"+automationID, nil)
	return err
}

func (c *client) CallService(ctx context.Context, domain, service string, payload map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/services/%s/%s", domain, service), payload)
	return err
}

func (c *client) TriggerAutomation(ctx context.Context, automationID string) error {
	return c.CallService(ctx, "automation", "trigger", map[string]any{
		"entity_id": "automation." + automationID,
	})
}

func (c *client) GetStates(ctx context.Context) ([]EntityStateSnapshot, error) {
	b, err := c.do(ctx, http.MethodGet, "/api/states", nil)
	if err != nil {
		return nil, err
	}

	states := make([]EntityStateSnapshot, 0)
	err = json.Unmarshal(b, &states)
	if err != nil {
		return nil, err
	}

	return states, nil
}

func (c *client) ListAutomationIDs(ctx context.Context) ([]string, error) {
	states, err := c.GetStates(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	for _, s := range states {
		if name, ok := strings.CutPrefix(s.EntityID, "automation."); ok {
			ids = append(ids, name)
		}
	}

	return ids, nil
}

func (c *client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("hub returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return b, nil
}

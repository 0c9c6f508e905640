package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const fetchTimeout = 10 * time.Second

type httpSource struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPSource reads calendar entries from a feed that serves them as a
// JSON array, with optional bearer auth.
func NewHTTPSource(url, token string) Source {
	return &httpSource{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (s *httpSource) Fetch(ctx context.Context) ([]RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	var raw []RawEvent
	err = json.NewDecoder(resp.Body).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("could not decode calendar feed: %w", err)
	}

	return raw, nil
}

package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
)

// HTTPFetcher fetches settings from the lab's settings endpoint
type HTTPFetcher struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given settings URL. The token
// is sent as a bearer credential when non-empty.
func NewHTTPFetcher(url, token string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch implements Fetcher. A 429 response becomes a RateLimitSignal
// carrying the Retry-After header when the server provides one.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*entity.SystemSettings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build settings request: %w", err)
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("settings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		signal := &RateLimitSignal{}
		if header := resp.Header.Get("Retry-After"); header != "" {
			if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
				signal.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, signal
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("settings endpoint returned status %d", resp.StatusCode)
	}

	var settings entity.SystemSettings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil, fmt.Errorf("decode settings response: %w", err)
	}
	return &settings, nil
}

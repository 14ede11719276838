package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"proxyconf/internal/importers"
	"proxyconf/internal/logger"
	"proxyconf/internal/sharelink"
)

// URLSource downloads a subscription and extracts its links.
type URLSource struct {
	Timeout time.Duration
}

func (s *URLSource) Fetch(ctx context.Context, targetURL string) ([]string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	logger.Log.Debugf("Fetching URL: %s", targetURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return sharelink.DecodeSubscription(string(bodyBytes)), nil
}

func init() {
	importers.Register("http", func() importers.Source { return &URLSource{} })
}

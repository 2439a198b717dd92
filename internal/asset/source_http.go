package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPSource downloads images over plain HTTP(S) without PIM credentials
type HTTPSource struct {
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if code := resp.StatusCode; code != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d downloading image", code)
	}

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("image body is unreadable: %w", err)
	}

	return bs, nil
}

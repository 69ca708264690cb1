package mood

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBridgeURL     = "http://localhost:8765/consciousness/state"
	DefaultBridgeTimeout = 50 * time.Millisecond
	maxPayload           = 1 << 16
)

// Fetcher produces a fresh state. Implementations must honor ctx.
type Fetcher interface {
	Fetch(ctx context.Context) (State, error)
}

// BridgeClient fetches states from the mood bridge over HTTP.
type BridgeClient struct {
	url    string
	client *http.Client
}

// NewBridgeClient builds a client bounded by timeout per request.
func NewBridgeClient(url string, timeout time.Duration) *BridgeClient {
	if url == "" {
		url = DefaultBridgeURL
	}
	if timeout <= 0 {
		timeout = DefaultBridgeTimeout
	}
	return &BridgeClient{url: url, client: &http.Client{Timeout: timeout}}
}

func (b *BridgeClient) Fetch(ctx context.Context) (State, error) {
	body, err := get(ctx, b.client, b.url)
	if err != nil {
		return State{}, err
	}
	return Decode(body)
}

func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

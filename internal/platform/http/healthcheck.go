package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"nexusauth/internal/platform/http/handler"
)

// ErrUnhealthy is returned when the service answers but is not fully healthy.
var ErrUnhealthy = errors.New("service unhealthy")

// CheckHealth probes a /api/health endpoint. It succeeds only when the
// service reports status ok and a connected store.
func CheckHealth(ctx context.Context, client *http.Client, url string) (*handler.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}

	var body handler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	if body.Status != "ok" || body.DB != handler.DBConnected {
		return &body, fmt.Errorf("%w: status=%s db=%s", ErrUnhealthy, body.Status, body.DB)
	}
	return &body, nil
}

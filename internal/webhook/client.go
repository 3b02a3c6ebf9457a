// Package webhook delivers grade results to an HTTP endpoint with
// exponential-backoff retry.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client represents a webhook HTTP client
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	logger      zerolog.Logger
}

// NewClient creates a new webhook client. A nil retryConfig selects the
// defaults.
func NewClient(config *Config, retryConfig *RetryConfig, logger zerolog.Logger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Per-request timeout
		},
		config:      config,
		retryConfig: retryConfig,
		logger:      logger.With().Str("component", "webhook").Logger(),
	}
}

// Send posts the payload as JSON, retrying transport errors and retryable
// status codes until the overall timeout expires. Every attempt carries the
// same Idempotency-Key, and a 409 from the receiver counts as delivered.
func (c *Client) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	key := idempotencyKey(body)
	var (
		lastErr error
		prev    attempt
	)

	for n := 0; n <= c.retryConfig.MaxRetries; n++ {
		if n > 0 {
			delay := nextDelay(n, prev, c.retryConfig)
			c.logger.Debug().
				Int("attempt", n).
				Int("max_retries", c.retryConfig.MaxRetries).
				Dur("delay", delay).
				Bool("retry_after", prev.retryAfter > 0).
				Msg("retrying webhook")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("webhook timeout after %d attempts: %w", n, ctx.Err())
			}
		}

		result, err := c.sendRequest(ctx, body, key)
		prev = result
		if err == nil && result.delivered() {
			c.logger.Info().Int("status", result.status).Str("url", c.config.URL).Msg("webhook delivered")
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", n+1, err)
			if ctx.Err() != nil {
				return lastErr
			}
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", n+1, result.status)
		}

		if !result.retryable() {
			c.logger.Warn().Int("status", result.status).Msg("non-retryable webhook status, giving up")
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retryConfig.MaxRetries+1, lastErr)
}

func (c *Client) sendRequest(ctx context.Context, payload []byte, key string) (attempt, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return attempt{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "gradeghost")
	req.Header.Set("Idempotency-Key", key)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case "api-key":
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attempt{}, err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return attempt{
		status:     resp.StatusCode,
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}, nil
}

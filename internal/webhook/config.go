package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/zinc-sig/gradeghost/internal/settings"
)

// Config holds webhook endpoint configuration
type Config struct {
	URL       string            // Webhook endpoint URL
	Method    string            // HTTP method (default: POST)
	Headers   map[string]string // Custom headers
	Timeout   time.Duration     // Overall timeout for all retries
	AuthType  string            // Authentication type: none, bearer, api-key
	AuthToken string            // Authentication token
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries   int           // Maximum retry attempts (default: 3)
	InitialDelay time.Duration // Initial delay between retries (default: 1s)
	MaxDelay     time.Duration // Cap on any delay, Retry-After included (default: 30s)
	Multiplier   float64       // Backoff multiplier (default: 2.0)
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// FromSettings builds the endpoint and retry configuration from a merged
// settings map. Recognised keys: url, method, timeout, auth_type,
// auth_token, headers, retries, retry_delay, max_retry_delay.
func FromSettings(m settings.Map) (*Config, *RetryConfig, error) {
	url, ok := m.String("url")
	if !ok {
		return nil, nil, fmt.Errorf("webhook url is required")
	}

	timeout, err := m.Duration("timeout", 30*time.Second)
	if err != nil {
		return nil, nil, err
	}

	authType := strings.ToLower(m.StringOr("auth_type", "none"))
	switch authType {
	case "none", "bearer", "api-key":
	default:
		return nil, nil, fmt.Errorf("invalid webhook auth type: %s (must be none, bearer, or api-key)", authType)
	}
	authToken := m.StringOr("auth_token", "")
	if authType != "none" && authToken == "" {
		return nil, nil, fmt.Errorf("webhook auth token is required for auth type %s", authType)
	}

	config := &Config{
		URL:       url,
		Method:    strings.ToUpper(m.StringOr("method", "POST")),
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: authToken,
	}

	if raw, ok := m["headers"].(map[string]any); ok {
		config.Headers = make(map[string]string, len(raw))
		for k, v := range raw {
			config.Headers[k] = fmt.Sprint(v)
		}
	}

	retry := DefaultRetryConfig()
	retry.MaxRetries = m.Int("retries", retry.MaxRetries)
	if retry.MaxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative")
	}
	if retry.InitialDelay, err = m.Duration("retry_delay", retry.InitialDelay); err != nil {
		return nil, nil, err
	}
	if retry.MaxDelay, err = m.Duration("max_retry_delay", retry.MaxDelay); err != nil {
		return nil, nil, err
	}
	if retry.MaxDelay < retry.InitialDelay {
		return nil, nil, fmt.Errorf("webhook max_retry_delay %v is below retry_delay %v", retry.MaxDelay, retry.InitialDelay)
	}

	return config, retry, nil
}

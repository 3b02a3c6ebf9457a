package helpers

import (
	"fmt"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/internal/settings"
	"github.com/zinc-sig/gradeghost/internal/webhook"
)

// WebhookEnvPrefix is read for GRADEGHOST_WEBHOOK (JSON) and
// GRADEGHOST_WEBHOOK_<KEY> variables
const WebhookEnvPrefix = "GRADEGHOST_WEBHOOK"

// BuildWebhookConfig merges webhook settings from all sources.
// Precedence: env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (settings.Map, error) {
	conf, err := settings.Build(settings.Sources{
		EnvPrefix: WebhookEnvPrefix,
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Direct flags only override when moved off their defaults
	if cfg.URL != "" {
		conf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		conf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		conf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		conf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		conf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		conf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		conf["retry_delay"] = cfg.RetryDelay
	}

	return conf, nil
}

// ParseWebhookConfig returns nil configs when no webhook URL is configured
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	conf, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := conf.String("url"); !ok {
		return nil, nil, nil
	}
	return webhook.FromSettings(conf)
}

package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/zinc-sig/gradeghost/internal/output"
	"github.com/zinc-sig/gradeghost/internal/webhook"
)

// OutputJSON marshals and prints v as one line of JSON
func OutputJSON(w io.Writer, v any) error {
	jsonOutput, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// SendWebhook posts the result when a webhook is configured and records
// the delivery status on it. Failures never fail the command.
func SendWebhook(ctx context.Context, result *output.Result, cfg *webhook.Config, retry *webhook.RetryConfig, logger zerolog.Logger) {
	if cfg == nil || cfg.URL == "" {
		return
	}

	client := webhook.NewClient(cfg, retry, logger)
	logger.Debug().Str("url", cfg.URL).Msg("sending webhook")

	if err := client.Send(ctx, result.Payload()); err != nil {
		logger.Error().Err(err).Msg("webhook failed")
		result.WebhookSent = false
		result.WebhookError = err.Error()
		return
	}
	result.WebhookSent = true
}

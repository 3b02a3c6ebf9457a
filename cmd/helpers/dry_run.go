package helpers

import (
	"github.com/rs/zerolog"

	"github.com/zinc-sig/gradeghost/internal/grader"
	"github.com/zinc-sig/gradeghost/internal/upload"
)

// LogDryRun reports the side effects a dry run skipped
func LogDryRun(logger zerolog.Logger, artifacts grader.Artifacts, summary string, uploads []upload.Artifact, webhookURL string) {
	logger.Info().
		Str("csv", artifacts.CSV).
		Str("feedback", artifacts.Feedback).
		Msg("dry run: artifacts not written")

	if summary != "" {
		logger.Info().Str("path", summary).Msg("dry run: step summary not appended")
	}
	for _, a := range uploads {
		logger.Info().Str("remote", a.Remote).Msg("dry run: upload skipped")
	}
	if webhookURL != "" {
		logger.Info().Str("url", webhookURL).Msg("dry run: webhook not sent")
	}
}

package helpers

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/internal/grader"
	"github.com/zinc-sig/gradeghost/internal/settings"
	"github.com/zinc-sig/gradeghost/internal/upload"
)

// UploadEnvPrefix is read for GRADEGHOST_UPLOAD_CONFIG (JSON) and
// GRADEGHOST_UPLOAD_CONFIG_<KEY> variables
const UploadEnvPrefix = "GRADEGHOST_UPLOAD_CONFIG"

// BuildUploadConfig merges upload settings from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (settings.Map, error) {
	conf, err := settings.Build(settings.Sources{
		EnvPrefix: UploadEnvPrefix,
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	return conf, nil
}

// SetupUploadProvider creates and configures the upload provider. It
// returns nil when no provider is selected.
func SetupUploadProvider(ctx context.Context, cfg *config.UploadConfig) (upload.Provider, settings.Map, error) {
	if cfg.Provider == "" {
		return nil, nil, nil
	}

	conf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(ctx, conf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, conf, nil
}

// RemoteDir expands {lab} and {student} in the upload path template
func RemoteDir(template, lab, student string) string {
	dir := strings.NewReplacer("{lab}", lab, "{student}", student).Replace(template)
	return strings.Trim(path.Clean("/"+dir), "/")
}

// UploadArtifacts maps the local artifacts to remote object paths
func UploadArtifacts(a grader.Artifacts, remoteDir string) []upload.Artifact {
	return []upload.Artifact{
		{Local: a.CSV, Remote: path.Join(remoteDir, grader.CSVName)},
		{Local: a.Feedback, Remote: path.Join(remoteDir, "feedback", grader.FeedbackName)},
	}
}

// HandleUploads uploads the artifacts with the provider, if any
func HandleUploads(ctx context.Context, provider upload.Provider, artifacts []upload.Artifact, logger zerolog.Logger) error {
	if provider == nil {
		return nil
	}

	if err := upload.UploadAll(ctx, provider, artifacts); err != nil {
		return err
	}
	for _, a := range artifacts {
		logger.Debug().Str("provider", provider.Name()).Str("file", filepath.Base(a.Local)).Str("remote", a.Remote).Msg("uploaded")
	}
	return nil
}

// LogUploadInfo logs the upload target in verbose mode
func LogUploadInfo(logger zerolog.Logger, provider upload.Provider, conf settings.Map, remoteDir string) {
	ev := logger.Debug().Str("provider", provider.Name()).Str("remote_dir", remoteDir)
	if provider.Name() == "minio" {
		ev = ev.Str("endpoint", conf.StringOr("endpoint", "")).
			Str("bucket", conf.StringOr("bucket", "")).
			Str("prefix", conf.StringOr("prefix", ""))
	}
	ev.Msg("upload configured")
}

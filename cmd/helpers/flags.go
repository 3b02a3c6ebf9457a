package helpers

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/internal/history"
)

// SetupCommonFlags adds the repository, lab and sandbox flags to a command
func SetupCommonFlags(cmd *cobra.Command, flags *config.CommonFlags) {
	cmd.Flags().StringVarP(&flags.Repo, "repo", "r", ".", "Path to the student repository checkout")
	cmd.Flags().StringVar(&flags.HistoryBackend, "history-backend", history.BackendGit, "Commit history backend: git, go-git")
	cmd.Flags().StringVarP(&flags.LabConfig, "lab-config", "c", "", "Path to YAML lab configuration (built-in lab when empty)")
	cmd.Flags().StringVar(&flags.Due, "due", "", "Override the deadline (RFC 3339 with offset, e.g. 2025-11-03T23:59:00+03:00)")
	cmd.Flags().IntVar(&flags.Window, "window", 0, "Number of recent commits to inspect (lab config or 800 when 0)")
	cmd.Flags().StringVarP(&flags.TimeoutStr, "timeout", "t", "", "Sandbox execution budget (e.g., 800ms, 2s)")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log every resolver and sandbox decision to stderr")
}

// SetupGradeFlags adds artifact and dry-run flags to the grade command
func SetupGradeFlags(cmd *cobra.Command, flags *config.GradeFlags) {
	cmd.Flags().StringVar(&flags.ArtifactsDir, "artifacts", "artifacts", "Directory for grade.csv and feedback/README.md, relative to --repo")
	cmd.Flags().StringVar(&flags.Summary, "step-summary", "", "Append the feedback to this file (default $GITHUB_STEP_SUMMARY)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Grade without writing artifacts, uploading or calling the webhook")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", "", "Upload provider type (e.g., minio)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON or YAML file containing upload configuration")
	cmd.Flags().StringVar(&cfg.Path, "upload-path", "{lab}/{student}", "Remote directory for uploaded artifacts")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send results to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: POST, PUT, PATCH")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON or YAML file containing webhook configuration")
}

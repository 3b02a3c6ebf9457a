package config

import "time"

// UploadConfig holds upload-related flags
type UploadConfig struct {
	Provider   string
	Config     string
	ConfigKV   []string
	ConfigFile string
	Path       string // Remote directory template, {lab} and {student} are expanded
}

// CommonFlags holds flags shared by every command
type CommonFlags struct {
	Repo           string
	HistoryBackend string
	LabConfig      string
	Due            string
	Window         int
	TimeoutStr     string
	Timeout        time.Duration
	Verbose        bool
}

// GradeFlags holds grade-only flags
type GradeFlags struct {
	ArtifactsDir string
	Summary      string // Step summary file; defaults to $GITHUB_STEP_SUMMARY
	DryRun       bool
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string // HTTP method (POST, PUT, PATCH)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON or YAML config file
}

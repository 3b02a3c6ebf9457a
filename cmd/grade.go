package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/cmd/helpers"
	"github.com/zinc-sig/gradeghost/internal/grader"
	"github.com/zinc-sig/gradeghost/internal/logging"
	"github.com/zinc-sig/gradeghost/internal/upload"
)

type gradeOptions struct {
	common  config.CommonFlags
	grade   config.GradeFlags
	webhook config.WebhookConfig
	upload  config.UploadConfig
}

func newGradeCmd() *cobra.Command {
	opts := &gradeOptions{}

	cmd := &cobra.Command{
		Use:   "grade [flags]",
		Short: "Grade the submission and write the feedback artifacts",
		Long: `Run the full grading pipeline on the repository: find the submission script,
resolve the submission commit, check lateness against the deadline, run the
code in the sandbox and score it.

Writes <artifacts>/grade.csv and <artifacts>/feedback/README.md, appends the
feedback to $GITHUB_STEP_SUMMARY when set, and prints the grade as JSON.
Optionally posts the JSON to a webhook and uploads the artifacts.`,
		Example: `  gradeghost grade
  gradeghost grade --repo ./submission --lab-config lab.yml --verbose
  gradeghost grade --due 2025-11-10T23:59:00+03:00 --dry-run
  gradeghost grade --webhook-url https://grades.example.com/hook --webhook-auth-type bearer --webhook-auth-token $TOKEN
  gradeghost grade --upload-provider minio --upload-config-kv endpoint=https://s3.example.com --upload-config-kv bucket=labs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, opts)
		},
	}

	helpers.SetupCommonFlags(cmd, &opts.common)
	helpers.SetupGradeFlags(cmd, &opts.grade)
	helpers.SetupWebhookFlags(cmd, &opts.webhook)
	helpers.SetupUploadFlags(cmd, &opts.upload)
	return cmd
}

func runGrade(cmd *cobra.Command, opts *gradeOptions) error {
	ctx := cmd.Context()
	logger := logging.New(cmd.ErrOrStderr(), opts.common.Verbose)

	if err := helpers.ValidateCommonFlags(&opts.common); err != nil {
		return err
	}
	lab, err := helpers.LoadLab(&opts.common)
	if err != nil {
		return err
	}
	provider, err := helpers.OpenHistory(&opts.common)
	if err != nil {
		return err
	}

	// Validate delivery settings before grading so a typo fails fast
	webhookCfg, retryCfg, err := helpers.ParseWebhookConfig(&opts.webhook)
	if err != nil {
		return err
	}

	g := &grader.Grader{
		Root:    opts.common.Repo,
		Lab:     lab,
		History: provider,
		Logger:  logger,
	}
	grade, err := g.Run(ctx)
	if err != nil {
		return err
	}
	result := grade.Result

	artifactsDir := opts.grade.ArtifactsDir
	if !filepath.IsAbs(artifactsDir) {
		artifactsDir = filepath.Join(opts.common.Repo, artifactsDir)
	}
	artifacts := grader.ArtifactsIn(artifactsDir)

	summary := opts.grade.Summary
	if summary == "" {
		summary = os.Getenv("GITHUB_STEP_SUMMARY")
	}

	var uploads []upload.Artifact
	remoteDir := helpers.RemoteDir(opts.upload.Path, lab.Name, result.Student)
	if opts.upload.Provider != "" {
		uploads = helpers.UploadArtifacts(artifacts, remoteDir)
	}

	if opts.grade.DryRun {
		result.DryRun = true
		webhookURL := ""
		if webhookCfg != nil {
			webhookURL = webhookCfg.URL
		}
		helpers.LogDryRun(logger, artifacts, summary, uploads, webhookURL)
		return helpers.OutputJSON(cmd.OutOrStdout(), result)
	}

	if err := artifacts.Write(grade.Report); err != nil {
		return err
	}
	logger.Info().Str("dir", artifacts.Dir).Msg("artifacts written")

	if err := grader.AppendStepSummary(summary, grade.Report); err != nil {
		logger.Warn().Err(err).Msg("step summary not written")
	}

	if len(uploads) > 0 {
		if err := uploadArtifacts(ctx, &opts.upload, uploads, remoteDir, logger); err != nil {
			logger.Error().Err(err).Msg("upload failed")
			result.UploadError = err.Error()
		}
	}

	helpers.SendWebhook(ctx, result, webhookCfg, retryCfg, logger)

	return helpers.OutputJSON(cmd.OutOrStdout(), result)
}

func uploadArtifacts(ctx context.Context, cfg *config.UploadConfig, uploads []upload.Artifact, remoteDir string, logger zerolog.Logger) error {
	provider, conf, err := helpers.SetupUploadProvider(ctx, cfg)
	if err != nil {
		return err
	}
	helpers.LogUploadInfo(logger, provider, conf, remoteDir)
	return helpers.HandleUploads(ctx, provider, uploads, logger)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/cmd/helpers"
	"github.com/zinc-sig/gradeghost/internal/logging"
	"github.com/zinc-sig/gradeghost/internal/output"
	"github.com/zinc-sig/gradeghost/internal/provenance"
)

func newResolveCmd() *cobra.Command {
	flags := &config.CommonFlags{}

	cmd := &cobra.Command{
		Use:   "resolve [flags]",
		Short: "Resolve the submission commit and lateness",
		Long: `Walk the commit history of the repository, skip bot commits and commits that
only touch grader infrastructure, and print the chosen submission commit with
its confidence and lateness as JSON.`,
		Example: `  gradeghost resolve
  gradeghost resolve --repo ./submission --history-backend go-git --window 200
  gradeghost resolve --due 2025-11-03T23:59:00+03:00 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), flags.Verbose)

			if err := helpers.ValidateCommonFlags(flags); err != nil {
				return err
			}
			lab, err := helpers.LoadLab(flags)
			if err != nil {
				return err
			}
			provider, err := helpers.OpenHistory(flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			resolution := provenance.Resolve(ctx, provider, lab.Classifier(),
				provenance.WithWindow(lab.Window),
				provenance.WithLogger(logger),
			)

			result := output.ResolveResult{
				Lab:        lab.Name,
				Resolution: output.NewResolution(resolution, lab.Due),
			}
			if commits, err := provider.ListCommits(ctx, 1); err == nil && len(commits) > 0 {
				result.Head = &commits[0]
			}

			return helpers.OutputJSON(cmd.OutOrStdout(), result)
		},
	}

	helpers.SetupCommonFlags(cmd, flags)
	return cmd
}

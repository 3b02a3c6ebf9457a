package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/cmd/helpers"
	"github.com/zinc-sig/gradeghost/internal/grader"
	"github.com/zinc-sig/gradeghost/internal/logging"
)

func newEvalCmd() *cobra.Command {
	flags := &config.CommonFlags{}

	cmd := &cobra.Command{
		Use:   "eval [flags] <file>",
		Short: "Check a JavaScript file for emptiness and run it in the sandbox",
		Long: `Check whether the file holds meaningful code and, if it does, compile and run it
in the sandbox with the lab's time budget. Prints the outcome (compile_error,
runtime_error, timeout or success, with captured console output) as JSON.`,
		Example: `  gradeghost eval script.js
  gradeghost eval --timeout 2s script.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), flags.Verbose)

			if err := helpers.ValidateCommonFlags(flags); err != nil {
				return err
			}
			lab, err := helpers.LoadLab(flags)
			if err != nil {
				return err
			}

			code, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			eval := grader.EvaluateSource(filepath.Base(args[0]), string(code), lab.Timeout, logger)
			return helpers.OutputJSON(cmd.OutOrStdout(), eval)
		},
	}

	helpers.SetupCommonFlags(cmd, flags)
	return cmd
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gradeghost",
		Short: "Grade a classroom JavaScript submission from its repository",
		Long: `gradeghost grades one student submission from inside the repository checkout.

It resolves when the student actually submitted by walking the commit history
past bot and grader commits, classifies the submission as on time or late,
and runs the JavaScript in an in-process sandbox with a hard time budget.
Results are printed as JSON on stdout; logs go to stderr.`,
		SilenceUsage: true,
	}

	root.AddCommand(newGradeCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newEvalCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

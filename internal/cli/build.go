package cli

import (
	"fmt"

	"github.com/666666ma999999/claudecode/internal/builder"
	"github.com/spf13/cobra"
)

var (
	buildForce  bool
	buildDryRun bool
)

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Continue despite validation errors")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Show what would be done without writing files")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all enabled extensions into the base directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		res, err := newBuilder().Build(builder.BuildOptions{Force: buildForce, DryRun: buildDryRun})
		if err != nil {
			return fmt.Errorf("building extensions: %w", err)
		}

		if buildDryRun {
			fmt.Fprintf(out, "%s no files written.\n", highlightStyle.Bold(true).Render("Dry run:"))
		}
		printWarnings(out, res.Warnings)

		if !res.Success {
			printErrorList(out, "Build failed:", res.Errors)
			return reported(res.Err())
		}

		fmt.Fprintf(out, "%s %d extension(s), %d file(s).\n",
			successStyle.Render("Build successful."), len(res.Extensions), len(res.FileMap))
		for _, name := range res.Extensions {
			fmt.Fprintf(out, "  %s %s\n", addedStyle.Render("+"), name)
		}
		return nil
	},
}

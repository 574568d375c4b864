package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/666666ma999999/claudecode/internal/builder"
	"github.com/spf13/cobra"
)

var (
	diffPatch    bool
	diffExitCode bool
)

var errChanges = errors.New("build output differs from disk")

func init() {
	diffCmd.Flags().BoolVar(&diffPatch, "patch", false, "Print unified diffs for modified, added and missing files")
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Exit with status 1 when a build would change anything")
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show differences between the current outputs and the next build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		report, err := newBuilder().Diff()
		if err != nil {
			return fmt.Errorf("computing diff: %w", err)
		}

		printDiff(out, report, diffPatch)

		if diffExitCode && report.HasChanges() {
			return reported(errChanges)
		}
		return nil
	},
}

func printDiff(out io.Writer, report *builder.DiffReport, patch bool) {
	if report.PreviousBuild != "" {
		fmt.Fprintln(out, mutedStyle.Render("Previous build: "+report.PreviousBuild))
	}
	printWarnings(out, report.Warnings)

	if !report.HasChanges() {
		fmt.Fprintln(out, successStyle.Render("No changes detected."))
	} else {
		for _, f := range report.Changes() {
			fmt.Fprintf(out, "  %s %s\n", changeMarker(f.Kind), f.Path)
		}
		fmt.Fprintf(out, "\n%d modified, %d to add, %d to remove, %d unchanged.\n",
			report.Count(builder.Modified), report.Count(builder.Added),
			report.Count(builder.Missing), report.Count(builder.Identical))
	}

	if patch && report.HasChanges() {
		fmt.Fprintln(out)
		fmt.Fprint(out, report.Patch())
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(out)
		printErrorList(out, "Validation errors:", report.Errors)
	}
}

func changeMarker(kind builder.ChangeKind) string {
	switch kind {
	case builder.Added:
		return addedStyle.Render("+")
	case builder.Missing:
		return removedStyle.Render("-")
	default:
		return warningStyle.Render("~")
	}
}

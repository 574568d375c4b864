package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the files recorded by the last build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		removed, err := newBuilder().Clean()
		if err != nil {
			return fmt.Errorf("cleaning build outputs: %w", err)
		}

		if len(removed) == 0 {
			fmt.Fprintln(out, warningStyle.Render("Nothing to clean."))
			return nil
		}
		fmt.Fprintln(out, addedStyle.Render(fmt.Sprintf("Removed %d file(s):", len(removed))))
		for _, p := range removed {
			fmt.Fprintf(out, "  %s %s\n", removedStyle.Render("-"), p)
		}
		return nil
	},
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/666666ma999999/claudecode/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	newDescription string
	newAuthor      string
	newRules       string
)

func init() {
	newCmd.Flags().StringVar(&newDescription, "description", "", "Extension description")
	newCmd.Flags().StringVar(&newAuthor, "author", "", "Extension author")
	newCmd.Flags().StringVar(&newRules, "rules", "", "Reserve a rule number range, e.g. 40-49")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		data := scaffold.NewData(args[0])
		if newDescription != "" {
			data.Description = newDescription
		}
		data.Author = newAuthor
		if newRules != "" {
			if err := data.SetRuleRange(newRules); err != nil {
				return err
			}
		}

		res, err := scaffold.Generate(filepath.Join(baseDir(), "extensions"), data)
		if err != nil {
			return err
		}

		printWarnings(out, res.Warnings)
		fmt.Fprintf(out, "%s %s\n", addedStyle.Render("Created extension:"), data.Name)
		fmt.Fprintf(out, "  Directory: %s\n", res.OutputDir)
		for _, f := range res.Files {
			fmt.Fprintf(out, "  %s %s\n", addedStyle.Render("+"), f)
		}
		return nil
	},
}

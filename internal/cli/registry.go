package cli

import (
	"fmt"
	"path/filepath"

	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable an extension in the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setEnabled(args[0], true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", addedStyle.Render("Enabled:"), args[0])
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable an extension in the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setEnabled(args[0], false); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", warningStyle.Render("Disabled:"), args[0])
		return nil
	},
}

// setEnabled records an override by extension name. The name is not checked
// against discovered extensions so an entry can be written ahead of time.
func setEnabled(name string, enabled bool) error {
	path := filepath.Join(baseDir(), "extensions", manifest.RegistryFileName)
	return manifest.SetRegistryEntry(path, name, enabled)
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/validator"
	"github.com/spf13/cobra"
)

var validateExtension string

func init() {
	validateCmd.Flags().StringVarP(&validateExtension, "extension", "e", "", "Validate a single extension by directory name")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate extension manifests and structure",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		root := filepath.Join(baseDir(), "extensions")

		var exts []discovery.Extension
		if validateExtension != "" {
			ext, err := loadExtension(root, validateExtension)
			if err != nil {
				return err
			}
			exts = []discovery.Extension{ext}
		} else {
			var err error
			exts, _, err = discovery.Load(root)
			if err != nil {
				return err
			}
		}

		errs := validator.ValidateAll(exts)
		if len(errs) > 0 {
			printErrorList(out, fmt.Sprintf("%d error(s) found:", len(errs)), errs)
			return reported(validator.Violations(errs))
		}

		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("All %d extension(s) valid.", len(exts))))
		return nil
	},
}

// loadExtension parses the extension in root/dir regardless of whether the
// registry enables it.
func loadExtension(root, dir string) (discovery.Extension, error) {
	extDir := filepath.Join(root, dir)
	path, ok := discovery.FindManifest(extDir)
	if !ok {
		return discovery.Extension{}, fmt.Errorf("extension not found: %s", dir)
	}
	m, err := manifest.ParseManifest(path)
	if err != nil {
		return discovery.Extension{}, err
	}
	return discovery.Extension{Dir: extDir, Manifest: m}, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/666666ma999999/claudecode/internal/branding"
	"github.com/666666ma999999/claudecode/internal/builder"
	"github.com/666666ma999999/claudecode/internal/config"
	"github.com/666666ma999999/claudecode/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagBaseDir string
	flagVerbose int
)

// setupLogging is swapped out by tests so they do not append to the user's
// state directory.
var setupLogging = logging.Setup

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` compiles the extension packages under <base>/extensions into the
rules, skills, commands, hooks, CLAUDE.md and settings.json read by Claude.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		setupLogging(flagVerbose)
		if flagVerbose == 0 {
			if err := logging.SetLevel(config.LogLevel()); err != nil {
				return err
			}
		}

		if flagBaseDir != "" {
			info, err := os.Stat(expandHome(flagBaseDir))
			if err != nil {
				return fmt.Errorf("base directory %s: %w", flagBaseDir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("base directory %s is not a directory", flagBaseDir)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "", "Build root containing extensions/ (default ~/"+branding.HomeDir()+")")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// baseDir resolves the build root: --base-dir, then config/env, then ~/.claude.
func baseDir() string {
	if flagBaseDir != "" {
		return expandHome(flagBaseDir)
	}
	return expandHome(config.BaseDir())
}

func newBuilder() *builder.Builder {
	return builder.New(baseDir(),
		builder.WithHookCommandPrefix(config.HookCommandPrefix()),
		builder.WithLogger(logging.GetLogger("builder")),
	)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

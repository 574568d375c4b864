package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/666666ma999999/claudecode/internal/builder"
	"github.com/666666ma999999/claudecode/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchDebounce time.Duration
	watchIgnore   []string
	watchForce    bool
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before rebuilding")
	watchCmd.Flags().StringSliceVar(&watchIgnore, "ignore", nil, "Extra glob patterns to ignore (doublestar syntax)")
	watchCmd.Flags().BoolVar(&watchForce, "force", false, "Continue despite validation errors")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever extension sources change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		b := newBuilder()
		opts := builder.BuildOptions{Force: watchForce}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := rebuild(out, b, opts); err != nil {
			return err
		}

		w, err := watch.New(watch.Config{
			Root:     filepath.Join(b.BaseDir, "extensions"),
			Debounce: watchDebounce,
			Ignore:   watchIgnore,
			OnChange: func(ctx context.Context, changed []string) error {
				fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("Changed:"), strings.Join(changed, ", "))
				return rebuild(out, b, opts)
			},
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(out, mutedStyle.Render("Watching "+filepath.Join(b.BaseDir, "extensions")+" (Ctrl+C to stop)"))
		return w.Run(ctx)
	},
}

// rebuild runs one build and prints a one-line summary. Validation failures
// are printed but do not stop the watcher.
func rebuild(out io.Writer, b *builder.Builder, opts builder.BuildOptions) error {
	res, err := b.Build(opts)
	if err != nil {
		return fmt.Errorf("building extensions: %w", err)
	}
	printWarnings(out, res.Warnings)
	if !res.Success {
		printErrorList(out, "Build failed:", res.Errors)
		return nil
	}
	fmt.Fprintf(out, "%s %s %d extension(s), %d file(s).\n",
		mutedStyle.Render(time.Now().Format(time.TimeOnly)),
		successStyle.Render("Built"), len(res.Extensions), len(res.FileMap))
	return nil
}

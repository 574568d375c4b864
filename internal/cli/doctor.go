package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/666666ma999999/claudecode/internal/compiler"
	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/platform"
	"github.com/666666ma999999/claudecode/internal/validator"
	"github.com/spf13/cobra"
)

// checkStatus orders from best to worst.
type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
)

type checkResult struct {
	status  checkStatus
	message string
}

type doctorReport struct {
	results []checkResult
}

func (r *doctorReport) ok(format string, args ...any) {
	r.results = append(r.results, checkResult{statusOK, fmt.Sprintf(format, args...)})
}

func (r *doctorReport) warn(format string, args ...any) {
	r.results = append(r.results, checkResult{statusWarn, fmt.Sprintf(format, args...)})
}

func (r *doctorReport) fail(format string, args ...any) {
	r.results = append(r.results, checkResult{statusFail, fmt.Sprintf(format, args...)})
}

func (r *doctorReport) count(s checkStatus) int {
	n := 0
	for _, res := range r.results {
		if res.status == s {
			n++
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the extension system",
	Long: `Run health checks on the build root: directory layout, registry, base
settings, previous build, CLAUDE.md template, extension validation and hook
script permissions. Exits non-zero when a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		report := runDoctor(baseDir())
		printDoctor(out, report)

		if n := report.count(statusFail); n > 0 {
			return reported(fmt.Errorf("%d check(s) failed", n))
		}
		return nil
	},
}

func runDoctor(base string) *doctorReport {
	r := &doctorReport{}
	root := filepath.Join(base, "extensions")

	if !isDir(root) {
		r.fail("extensions/ directory does not exist (%s)", root)
		return r
	}
	r.ok("extensions/ directory exists")

	checkFile(r, filepath.Join(root, manifest.RegistryFileName),
		manifest.RegistryFileName+" found",
		manifest.RegistryFileName+" not found (manifest defaults apply)")
	checkFile(r, filepath.Join(base, compiler.BaseSettingsFile),
		compiler.BaseSettingsFile+" found",
		compiler.BaseSettingsFile+" not found (settings.json starts empty)")
	checkFile(r, filepath.Join(base, manifest.BuildManifestFileName),
		manifest.BuildManifestFileName+" found (previous build exists)",
		manifest.BuildManifestFileName+" not found (no previous build)")
	checkFile(r, filepath.Join(base, compiler.TemplateFile),
		"CLAUDE.md template found",
		"CLAUDE.md template not found (built-in default is used)")

	exts, _, err := discovery.Load(root)
	if err != nil {
		r.fail("%v", err)
		return r
	}
	if len(exts) == 0 {
		r.warn("No enabled extensions found")
		return r
	}

	if errs := validator.ValidateAll(exts); len(errs) > 0 {
		for _, e := range errs {
			r.fail("Validation: %s", e)
		}
	} else {
		r.ok("All %d extension(s) pass validation", len(exts))
	}

	checkHookScripts(r, exts)
	return r
}

// checkHookScripts flags declared hook scripts that would deploy without an
// execute bit. Missing scripts are already reported by validation.
func checkHookScripts(r *doctorReport, exts []discovery.Extension) {
	bad := 0
	for _, ext := range exts {
		ext.Manifest.EachHook(func(event manifest.HookEvent, hook manifest.HookDef) {
			path := ext.Path(hook.Script)
			if _, err := os.Stat(path); err != nil {
				return
			}
			if !platform.IsExecutable(path) {
				bad++
				r.warn("Hook script not executable: %s/%s (%s)", ext.Name(), hook.Script, event)
			}
		})
	}
	if bad == 0 {
		r.ok("Hook scripts are executable")
	}
}

func checkFile(r *doctorReport, path, found, missing string) {
	if _, err := os.Stat(path); err == nil {
		r.ok("%s", found)
		return
	}
	r.warn("%s", missing)
}

func printDoctor(out io.Writer, r *doctorReport) {
	fmt.Fprintln(out, titleStyle.Render("Extension System Health Check"))
	fmt.Fprintln(out)

	for _, res := range r.results {
		var marker string
		switch res.status {
		case statusOK:
			marker = addedStyle.Render("  OK")
		case statusWarn:
			marker = warningStyle.Render("WARN")
		default:
			marker = errorStyle.Render("FAIL")
		}
		fmt.Fprintf(out, "  %s %s\n", marker, res.message)
	}

	fmt.Fprintln(out)
	fails, warns := r.count(statusFail), r.count(statusWarn)
	switch {
	case fails > 0:
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("%d check(s) failed, %d warning(s).", fails, warns)))
	case warns > 0:
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("All checks passed with %d warning(s).", warns)))
	default:
		fmt.Fprintln(out, successStyle.Render("All checks passed."))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

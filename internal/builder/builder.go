package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/666666ma999999/claudecode/internal/compiler"
	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/logging"
	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/validator"
)

// NoExtensionsWarning is reported when discovery finds nothing to build.
const NoExtensionsWarning = "No enabled extensions found."

// Builder runs builds against a single build root.
type Builder struct {
	BaseDir           string
	HookCommandPrefix string
	log               zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithHookCommandPrefix sets the directory hook commands are resolved
// against in settings.json.
func WithHookCommandPrefix(prefix string) Option {
	return func(b *Builder) {
		b.HookCommandPrefix = prefix
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

// New returns a Builder rooted at baseDir.
func New(baseDir string, opts ...Option) *Builder {
	b := &Builder{
		BaseDir:           baseDir,
		HookCommandPrefix: compiler.DefaultHookCommandPrefix,
		log:               logging.GetLogger("builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ExtensionsDir is where extensions are discovered.
func (b *Builder) ExtensionsDir() string {
	return filepath.Join(b.BaseDir, "extensions")
}

// BuildManifestPath is the location of the build record.
func (b *Builder) BuildManifestPath() string {
	return filepath.Join(b.BaseDir, manifest.BuildManifestFileName)
}

// BuildOptions controls a build.
type BuildOptions struct {
	Force  bool // continue past validation errors, reporting them as warnings
	DryRun bool // compute outputs without touching the filesystem
}

// Result is the outcome of a build.
type Result struct {
	Success    bool
	Extensions []string
	Errors     []string
	Warnings   []string
	FileMap    compiler.FileMap
	Manifest   *manifest.BuildManifest // nil unless compilation ran
}

// Err returns the validation errors as a single error, or nil.
func (r *Result) Err() error {
	return validator.Violations(r.Errors)
}

// Build runs the pipeline. The returned error is reserved for failures that
// abort the build (unparseable manifests, I/O); validation problems are
// reported in the Result.
func (b *Builder) Build(opts BuildOptions) (*Result, error) {
	res, _, err := b.run(opts, nil)
	return res, err
}

// run is Build with optional content capture. It also returns the raw
// validation findings, which a forced build moves into warnings.
func (b *Builder) run(opts BuildOptions, content compiler.ContentMap) (*Result, []string, error) {
	res := &Result{
		Success:    true,
		Extensions: []string{},
		Errors:     []string{},
		Warnings:   []string{},
		FileMap:    compiler.FileMap{},
	}

	exts, _, err := discovery.Load(b.ExtensionsDir())
	if err != nil {
		return nil, nil, err
	}
	if len(exts) == 0 {
		res.Warnings = append(res.Warnings, NoExtensionsWarning)
		return res, nil, nil
	}
	for _, ext := range exts {
		res.Extensions = append(res.Extensions, ext.Name())
	}
	b.log.Debug().Strs("extensions", res.Extensions).Msg("Discovered extensions")

	violations := validator.ValidateAll(exts)
	if len(violations) > 0 {
		if !opts.Force {
			res.Success = false
			res.Errors = violations
			b.log.Info().Int("errors", len(violations)).Msg("Validation failed")
			return res, violations, nil
		}
		res.Warnings = append(res.Warnings, violations...)
		b.log.Warn().Int("errors", len(violations)).Msg("Validation failed, continuing because of force")
	}

	if !opts.DryRun {
		removed, err := b.cleanOutputs()
		if err != nil {
			return nil, nil, err
		}
		b.log.Debug().Int("removed", len(removed)).Msg("Cleaned previous outputs")
		// The old record now lists deleted paths.
		if err := os.Remove(b.BuildManifestPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("removing build manifest: %w", err)
		}
	}

	copts := compiler.Options{
		BaseDir:           b.BaseDir,
		DryRun:            opts.DryRun,
		Content:           content,
		HookCommandPrefix: b.HookCommandPrefix,
	}
	for _, c := range compiler.Pipeline() {
		fm, err := c.Compile(exts, copts)
		if err != nil {
			if !opts.DryRun {
				b.rollback(res.FileMap)
			}
			return nil, nil, fmt.Errorf("compiling %s: %w", c.Name(), err)
		}
		res.FileMap.Merge(fm)
	}

	bm, err := compiler.WriteBuildManifest(res.Extensions, res.FileMap, copts)
	if err != nil {
		if !opts.DryRun {
			b.rollback(res.FileMap)
		}
		return nil, nil, fmt.Errorf("writing build manifest: %w", err)
	}
	res.Manifest = bm

	b.log.Info().
		Int("extensions", len(res.Extensions)).
		Int("files", len(res.FileMap)).
		Bool("dryRun", opts.DryRun).
		Msg("Build complete")
	return res, violations, nil
}

// rollback removes the outputs an aborted build already wrote. Failures are
// logged; the compile error is what gets reported.
func (b *Builder) rollback(fm compiler.FileMap) {
	removed, err := b.removeOutputs(fm.Paths())
	if err != nil {
		b.log.Warn().Err(err).Msg("Could not remove outputs of the aborted build")
		return
	}
	b.log.Debug().Int("removed", len(removed)).Msg("Rolled back aborted build")
}

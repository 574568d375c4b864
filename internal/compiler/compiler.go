package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/platform"
)

// Output locations relative to the build root.
const (
	RoutingFile      = "rules/30-routing.md"
	ContextFile      = "CLAUDE.md"
	SettingsFile     = "settings.json"
	BaseSettingsFile = "settings.local.json"
	TemplateFile     = "extensions/_build_tool/templates/CLAUDE.md.tmpl"
)

// Synthetic sources recorded for generated documents.
const (
	SourceRouting  = "routing-compiler"
	SourceContext  = "claude-md-compiler"
	SourceSettings = "settings-compiler"
)

// DefaultHookCommandPrefix is where hooks are deployed, as seen by the host
// application when it runs them.
const DefaultHookCommandPrefix = "~/.claude"

// OutputDirs are the per-kind directories the copy compilers write into.
var OutputDirs = []string{"rules", "skills", "commands", "hooks"}

// excludedNames are never copied out of an extension.
var excludedNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	".DS_Store":    true,
	"__pycache__":  true,
}

// FileMap maps an output path to the extension or tool that produced it.
type FileMap map[string]string

// Merge copies every entry of other into m; later entries win.
func (m FileMap) Merge(other FileMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Paths returns the output paths in sorted order.
func (m FileMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ContentMap holds the bytes each output path would receive.
type ContentMap map[string][]byte

// Options controls a single compiler run.
type Options struct {
	BaseDir           string
	DryRun            bool
	Content           ContentMap // recorded only when non-nil
	HookCommandPrefix string     // empty means DefaultHookCommandPrefix
}

// abs resolves an output path against the build root.
func (o Options) abs(rel string) string {
	return filepath.Join(o.BaseDir, filepath.FromSlash(rel))
}

// emit writes data to rel (unless dry-run) and records it in Content.
func (o Options) emit(rel string, data []byte, mode fs.FileMode) error {
	if o.Content != nil {
		o.Content[rel] = data
	}
	if o.DryRun {
		return nil
	}

	dst := o.abs(rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(dst, data, mode.Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	// WriteFile only applies mode on create and is subject to umask.
	if err := platform.Chmod(dst, mode.Perm()); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", rel, err)
	}
	return nil
}

// copyFile emits a single source file under rel with its permissions.
func (o Options) copyFile(src, rel string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	return o.emit(rel, data, info.Mode())
}

// clearDir removes relDir from the build root (unless dry-run) and forgets
// every output already recorded below it.
func (o Options) clearDir(relDir string, fm FileMap) error {
	prefix := relDir + "/"
	for rel := range fm {
		if strings.HasPrefix(rel, prefix) {
			delete(fm, rel)
		}
	}
	for rel := range o.Content {
		if strings.HasPrefix(rel, prefix) {
			delete(o.Content, rel)
		}
	}
	if o.DryRun {
		return nil
	}
	return os.RemoveAll(o.abs(relDir))
}

// copyTree emits every regular file below src under relDir, preserving the
// relative structure and skipping excluded names. Each file is recorded in
// fm against source.
func (o Options) copyTree(src, relDir, source string, fm FileMap) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", src, err)
		}
		if p != src && excludedNames[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		out := path.Join(relDir, filepath.ToSlash(rel))
		if err := o.copyFile(p, out); err != nil {
			return err
		}
		fm[out] = source
		return nil
	})
}

// Compiler produces one kind of output from the whole extension set.
type Compiler interface {
	Name() string
	Compile(exts []discovery.Extension, opts Options) (FileMap, error)
}

// Pipeline returns the compilers in the order a build runs them.
func Pipeline() []Compiler {
	return []Compiler{
		Rules{},
		Routing{},
		Skills{},
		Commands{},
		Hooks{},
		Context{},
		Settings{},
	}
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

package compiler

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/logging"
)

// Rules copies each extension's top-level rules/*.md into rules/.
type Rules struct{}

func (Rules) Name() string { return "rules" }

func (Rules) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	fm := FileMap{}
	for _, ext := range exts {
		matches, err := filepath.Glob(ext.Path("rules", "*.md"))
		if err != nil {
			return nil, fmt.Errorf("listing rules of %s: %w", ext.Name(), err)
		}
		sort.Strings(matches)
		for _, src := range matches {
			if info, err := os.Stat(src); err != nil || !info.Mode().IsRegular() {
				continue
			}
			rel := path.Join("rules", filepath.Base(src))
			if err := opts.copyFile(src, rel); err != nil {
				return nil, err
			}
			fm[rel] = ext.Name()
		}
	}
	logCompiled("rules", fm)
	return fm, nil
}

// Skills copies each skills/<name>/ directory into skills/<name>/, replacing
// any existing directory of that name.
type Skills struct{}

func (Skills) Name() string { return "skills" }

func (Skills) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	fm := FileMap{}
	for _, ext := range exts {
		names, err := discovery.SkillDirs(ext.Dir)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			relDir := path.Join("skills", name)
			if err := opts.clearDir(relDir, fm); err != nil {
				return nil, fmt.Errorf("removing existing skill %s: %w", name, err)
			}
			if err := opts.copyTree(ext.Path("skills", name), relDir, ext.Name(), fm); err != nil {
				return nil, err
			}
		}
	}
	logCompiled("skills", fm)
	return fm, nil
}

// Commands copies the regular files directly under commands/.
type Commands struct{}

func (Commands) Name() string { return "commands" }

func (Commands) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	fm := FileMap{}
	for _, ext := range exts {
		entries, err := os.ReadDir(ext.Path("commands"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing commands of %s: %w", ext.Name(), err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || excludedNames[e.Name()] {
				continue
			}
			rel := path.Join("commands", e.Name())
			if err := opts.copyFile(ext.Path("commands", e.Name()), rel); err != nil {
				return nil, err
			}
			fm[rel] = ext.Name()
		}
	}
	logCompiled("commands", fm)
	return fm, nil
}

// Hooks copies everything under hooks/ recursively. File modes, including
// the executable bit, carry over to the output.
type Hooks struct{}

func (Hooks) Name() string { return "hooks" }

func (Hooks) Compile(exts []discovery.Extension, opts Options) (FileMap, error) {
	fm := FileMap{}
	for _, ext := range exts {
		src := ext.Path("hooks")
		if !isDir(src) {
			continue
		}
		if err := opts.copyTree(src, "hooks", ext.Name(), fm); err != nil {
			return nil, err
		}
	}
	logCompiled("hooks", fm)
	return fm, nil
}

func logCompiled(kind string, fm FileMap) {
	logger := logging.GetLogger("compiler")
	logger.Debug().Str("kind", kind).Int("files", len(fm)).Msg("Compiled")
}

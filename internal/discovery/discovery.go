package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/666666ma999999/claudecode/internal/logging"
	"github.com/666666ma999999/claudecode/internal/manifest"
)

// ReservedPrefix marks directories under the extensions root that are not
// extensions (for example _build_tool).
const ReservedPrefix = "_"

// Extension is a discovered extension: its directory and parsed manifest.
type Extension struct {
	Dir      string
	Manifest *manifest.ExtensionManifest
}

// Name returns the manifest name.
func (e Extension) Name() string {
	return e.Manifest.Name
}

// Path joins rel onto the extension directory.
func (e Extension) Path(rel ...string) string {
	return filepath.Join(append([]string{e.Dir}, rel...)...)
}

// IsReserved reports whether a directory name is excluded from discovery.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}

// FindManifest returns the manifest path inside dir, honouring the
// precedence in manifest.ManifestFileNames. ok is false if none exists.
func FindManifest(dir string) (path string, ok bool) {
	for _, name := range manifest.ManifestFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// Discover lists root in directory-name order and parses every extension
// manifest it finds. Directories without a manifest are skipped silently; a
// manifest that fails to parse aborts discovery. When reg is non-nil only
// extensions it reports as enabled are returned. A missing root yields an
// empty result.
func Discover(root string, reg *manifest.Registry) ([]Extension, error) {
	logger := logging.GetLogger("discovery")

	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug().Str("root", root).Msg("Extensions root does not exist")
		return []Extension{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading extensions root %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	result := []Extension{}
	for _, entry := range entries {
		name := entry.Name()
		if IsReserved(name) {
			continue
		}

		dir := filepath.Join(root, name)
		if !isDir(dir) {
			continue
		}

		manifestPath, ok := FindManifest(dir)
		if !ok {
			logger.Debug().Str("dir", dir).Msg("No manifest, skipping")
			continue
		}

		m, err := manifest.ParseManifest(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("discovering %s: %w", name, err)
		}

		if reg != nil && !reg.IsEnabled(m) {
			logger.Debug().Str("extension", m.Name).Msg("Disabled, skipping")
			continue
		}

		result = append(result, Extension{Dir: dir, Manifest: m})
	}

	logger.Debug().Int("count", len(result)).Msg("Discovery complete")
	return result, nil
}

// Load reads the registry beside root and discovers enabled extensions.
func Load(root string) ([]Extension, *manifest.Registry, error) {
	reg, err := manifest.LoadRegistry(filepath.Join(root, manifest.RegistryFileName))
	if err != nil {
		return nil, nil, err
	}
	exts, err := Discover(root, reg)
	if err != nil {
		return nil, nil, err
	}
	return exts, reg, nil
}

// isDir follows symlinks so linked extension directories are discovered.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/666666ma999999/claudecode/internal/compiler"
	"github.com/666666ma999999/claudecode/internal/manifest"
)

// Clean removes every output recorded by the last build and then the build
// manifest itself. It returns the removed paths, relative to the build root
// and sorted. Without a build manifest it does nothing.
func (b *Builder) Clean() ([]string, error) {
	removed, err := b.cleanOutputs()
	if err != nil {
		return nil, err
	}

	err = os.Remove(b.BuildManifestPath())
	switch {
	case err == nil:
		removed = append(removed, manifest.BuildManifestFileName)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("removing build manifest: %w", err)
	}

	sort.Strings(removed)
	b.log.Info().Int("removed", len(removed)).Msg("Clean complete")
	return removed, nil
}

// cleanOutputs deletes the paths listed in the build manifest that still
// exist and prunes directories the deletions left empty.
func (b *Builder) cleanOutputs() ([]string, error) {
	bm, err := manifest.LoadBuildManifest(b.BuildManifestPath())
	if err != nil {
		return nil, err
	}
	if bm == nil {
		return []string{}, nil
	}
	return b.removeOutputs(bm.Paths())
}

// removeOutputs deletes each listed output that exists and prunes the
// directories left empty.
func (b *Builder) removeOutputs(paths []string) ([]string, error) {
	removed := []string{}
	parents := map[string]bool{}
	for _, rel := range paths {
		if !safeRelPath(rel) {
			b.log.Warn().Str("path", rel).Msg("Ignoring build manifest entry outside the build root")
			continue
		}
		full := filepath.Join(b.BaseDir, filepath.FromSlash(rel))
		if _, err := os.Lstat(full); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.RemoveAll(full); err != nil {
			return nil, fmt.Errorf("removing %s: %w", rel, err)
		}
		removed = append(removed, rel)
		parents[path.Dir(rel)] = true
	}

	b.pruneEmptyDirs(parents)
	return removed, nil
}

// pruneEmptyDirs removes now-empty directories below the output kind
// directories, walking upward from each starting point. The kind
// directories themselves are kept.
func (b *Builder) pruneEmptyDirs(dirs map[string]bool) {
	roots := map[string]bool{}
	for _, d := range compiler.OutputDirs {
		roots[d] = true
	}

	// Deepest first so children go before their parents.
	list := make([]string, 0, len(dirs))
	for d := range dirs {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return len(list[i]) > len(list[j]) })

	for _, dir := range list {
		for dir != "." && !roots[dir] && roots[strings.SplitN(dir, "/", 2)[0]] {
			full := filepath.Join(b.BaseDir, filepath.FromSlash(dir))
			entries, err := os.ReadDir(full)
			if err != nil || len(entries) > 0 {
				break
			}
			if err := os.Remove(full); err != nil {
				break
			}
			dir = path.Dir(dir)
		}
	}
}

// safeRelPath rejects absolute paths and paths that climb out of the root.
func safeRelPath(rel string) bool {
	if rel == "" || path.IsAbs(rel) || filepath.IsAbs(rel) {
		return false
	}
	clean := path.Clean(rel)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

package compiler

import (
	"path/filepath"
	"sort"

	"github.com/666666ma999999/claudecode/internal/manifest"
)

// WriteBuildManifest records the build at <base>/.build-manifest.json and
// returns the record. Nothing is written on a dry run.
func WriteBuildManifest(extNames []string, files FileMap, opts Options) (*manifest.BuildManifest, error) {
	names := append([]string(nil), extNames...)
	sort.Strings(names)

	bm := manifest.NewBuildManifest(names, map[string]string(files))
	if opts.DryRun {
		return bm, nil
	}
	if err := manifest.WriteBuildManifest(filepath.Join(opts.BaseDir, manifest.BuildManifestFileName), bm); err != nil {
		return nil, err
	}
	return bm, nil
}

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// NewBuildManifest stamps a build record with the current UTC time.
func NewBuildManifest(extensions []string, files map[string]string) *BuildManifest {
	if extensions == nil {
		extensions = []string{}
	}
	if files == nil {
		files = map[string]string{}
	}
	return &BuildManifest{
		BuiltAt:    time.Now().UTC().Format(time.RFC3339),
		Extensions: extensions,
		Files:      files,
	}
}

// LoadBuildManifest reads the build record at path. It returns (nil, nil)
// when no build has been recorded yet.
func LoadBuildManifest(path string) (*BuildManifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading build manifest %s: %w", path, err)
	}

	var bm BuildManifest
	if err := json.Unmarshal(data, &bm); err != nil {
		return nil, fmt.Errorf("parsing build manifest %s: %w", path, err)
	}
	if bm.Files == nil {
		bm.Files = map[string]string{}
	}
	return &bm, nil
}

// WriteBuildManifest writes bm to path through a temporary file in the same
// directory followed by a rename, so readers never observe a partial record.
func WriteBuildManifest(path string, bm *BuildManifest) error {
	data, err := json.MarshalIndent(bm, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding build manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating build manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".build-manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing build manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing build manifest: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting build manifest permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing build manifest: %w", err)
	}
	return nil
}

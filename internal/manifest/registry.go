package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// LoadRegistry reads extension-registry.yaml. A missing or empty file yields
// an empty registry, so every manifest falls back to its own enabled flag.
func LoadRegistry(path string) (*Registry, error) {
	reg := &Registry{Extensions: map[string]bool{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if reg.Extensions == nil {
		reg.Extensions = map[string]bool{}
	}
	return reg, nil
}

// SetRegistryEntry records an explicit enabled state for name in the registry
// at path, creating the file and its parent directory if needed. Keys other
// than "extensions" are preserved.
func SetRegistryEntry(path, name string, enabled bool) error {
	doc := map[string]interface{}{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading registry %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return &ParseError{Path: path, Err: err}
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
	}

	exts, _ := normalize(doc["extensions"]).(map[string]interface{})
	if exts == nil {
		exts = map[string]interface{}{}
	}
	exts[name] = enabled
	doc["extensions"] = exts

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing registry %s: %w", path, err)
	}
	return nil
}

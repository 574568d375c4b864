// Package testutil builds throwaway extension trees for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// BaseDir creates an empty build root with an extensions/ directory and
// returns the root.
func BaseDir(t testing.TB) string {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "extensions"), 0o755))
	return base
}

// ExtensionsDir returns <base>/extensions.
func ExtensionsDir(base string) string {
	return filepath.Join(base, "extensions")
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// WriteExecutable writes content to path with mode 0755.
func WriteExecutable(t testing.TB, path, content string) {
	t.Helper()
	WriteFile(t, path, content)
	require.NoError(t, os.Chmod(path, 0o755))
}

// ReadFile returns the content of path as a string.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Extension writes <base>/extensions/<dir>/extension.yaml with the given
// manifest body plus any extra files (paths relative to the extension dir).
// Files under hooks/ are made executable. It returns the extension dir.
func Extension(t testing.TB, base, dir, manifestYAML string, files map[string]string) string {
	t.Helper()
	extDir := filepath.Join(ExtensionsDir(base), dir)
	WriteFile(t, filepath.Join(extDir, "extension.yaml"), manifestYAML)
	for rel, content := range files {
		p := filepath.Join(extDir, filepath.FromSlash(rel))
		if strings.HasPrefix(rel, "hooks/") {
			WriteExecutable(t, p, content)
			continue
		}
		WriteFile(t, p, content)
	}
	return extDir
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

package builder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/testutil"
)

func TestClean_RemovesBuildOutputs(t *testing.T) {
	base := fixture(t)
	b := New(base)

	res, err := b.Build(BuildOptions{})
	require.NoError(t, err)
	userRule := filepath.Join(base, "rules", "99-mine.md")
	testutil.WriteFile(t, userRule, "hand written\n")

	removed, err := b.Clean()
	require.NoError(t, err)
	assert.Len(t, removed, len(res.FileMap)+1)
	assert.Contains(t, removed, manifest.BuildManifestFileName)

	for rel := range res.FileMap {
		assert.False(t, testutil.Exists(filepath.Join(base, filepath.FromSlash(rel))), rel)
	}
	assert.False(t, testutil.Exists(b.BuildManifestPath()))
	assert.False(t, testutil.Exists(filepath.Join(base, "skills", "git-commit")), "empty skill dir pruned")
	assert.True(t, testutil.Exists(userRule), "untracked files survive")
	assert.True(t, testutil.Exists(filepath.Join(base, "extensions", "git", "extension.yaml")))

	again, err := b.Clean()
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestClean_NoManifest(t *testing.T) {
	removed, err := New(testutil.BaseDir(t)).Clean()
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestClean_ToleratesAlreadyRemoved(t *testing.T) {
	base := fixture(t)
	b := New(base)
	_, err := b.Build(BuildOptions{})
	require.NoError(t, err)

	gone := filepath.Join(base, "commands", "ship.md")
	require.NoError(t, removeFile(gone))

	removed, err := b.Clean()
	require.NoError(t, err)
	assert.NotContains(t, removed, "commands/ship.md")
}

func TestClean_IgnoresEscapingPaths(t *testing.T) {
	base := testutil.BaseDir(t)
	outside := filepath.Join(filepath.Dir(base), "outside.txt")
	testutil.WriteFile(t, outside, "keep")
	t.Cleanup(func() { _ = removeFile(outside) })

	bm := manifest.NewBuildManifest([]string{"x"}, map[string]string{"../outside.txt": "x"})
	require.NoError(t, manifest.WriteBuildManifest(filepath.Join(base, manifest.BuildManifestFileName), bm))

	removed, err := New(base).Clean()
	require.NoError(t, err)
	assert.Equal(t, []string{manifest.BuildManifestFileName}, removed)
	assert.True(t, testutil.Exists(outside))
}

func TestSafeRelPath(t *testing.T) {
	assert.True(t, safeRelPath("rules/a.md"))
	assert.True(t, safeRelPath("CLAUDE.md"))
	assert.False(t, safeRelPath(""))
	assert.False(t, safeRelPath("/etc/passwd"))
	assert.False(t, safeRelPath("../x"))
	assert.False(t, safeRelPath("rules/../../x"))
}

package discovery

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/testutil"
)

func TestDiscover_SortedAndFiltered(t *testing.T) {
	base := testutil.BaseDir(t)
	root := testutil.ExtensionsDir(base)

	testutil.Extension(t, base, "zeta", "name: zeta\n", nil)
	testutil.Extension(t, base, "alpha", "name: alpha\n", nil)
	testutil.Extension(t, base, "_build_tool", "name: build-tool\n", nil)
	testutil.WriteFile(t, filepath.Join(root, "no-manifest", "README.md"), "hi")
	testutil.WriteFile(t, filepath.Join(root, "stray.yaml"), "name: stray\n")

	exts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, exts, 2)
	assert.Equal(t, "alpha", exts[0].Name())
	assert.Equal(t, "zeta", exts[1].Name())
	assert.Equal(t, filepath.Join(root, "alpha"), exts[0].Dir)
}

func TestDiscover_RegistryOverrides(t *testing.T) {
	base := testutil.BaseDir(t)
	root := testutil.ExtensionsDir(base)

	testutil.Extension(t, base, "on", "name: on\n", nil)
	testutil.Extension(t, base, "off", "name: off\nenabled: false\n", nil)
	testutil.Extension(t, base, "forced", "name: forced\nenabled: false\n", nil)
	testutil.WriteFile(t, filepath.Join(root, manifest.RegistryFileName),
		"extensions:\n  on: false\n  forced: true\n")

	exts, reg, err := Load(root)
	require.NoError(t, err)
	require.NotNil(t, reg)
	require.Len(t, exts, 1)
	assert.Equal(t, "forced", exts[0].Name())

	all, err := Discover(root, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3, "nil registry returns every extension")
}

func TestDiscover_MissingRoot(t *testing.T) {
	exts, err := Discover(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	assert.Empty(t, exts)
}

func TestDiscover_MalformedManifestAborts(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "good", "name: good\n", nil)
	testutil.Extension(t, base, "bad", "description: no name\n", nil)

	_, err := Discover(testutil.ExtensionsDir(base), nil)
	require.Error(t, err)

	var pe *manifest.ParseError
	assert.True(t, errors.As(err, &pe), "error should wrap *manifest.ParseError")
}

func TestFindManifest_Precedence(t *testing.T) {
	dir := t.TempDir()
	_, ok := FindManifest(dir)
	assert.False(t, ok)

	testutil.WriteFile(t, filepath.Join(dir, "extension.toml"), "name = \"x\"\n")
	path, ok := FindManifest(dir)
	require.True(t, ok)
	assert.Equal(t, "extension.toml", filepath.Base(path))

	testutil.WriteFile(t, filepath.Join(dir, "extension.yml"), "name: x\n")
	path, _ = FindManifest(dir)
	assert.Equal(t, "extension.yml", filepath.Base(path))

	testutil.WriteFile(t, filepath.Join(dir, "extension.yaml"), "name: x\n")
	path, _ = FindManifest(dir)
	assert.Equal(t, "extension.yaml", filepath.Base(path))
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("_build_tool"))
	assert.True(t, IsReserved("_"))
	assert.False(t, IsReserved("build_tool"))
	assert.False(t, IsReserved(""))
}

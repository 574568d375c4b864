package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/666666ma999999/claudecode/internal/testutil"
)

func removeFile(p string) error {
	return os.Remove(p)
}

func kinds(r *DiffReport) map[string]ChangeKind {
	out := map[string]ChangeKind{}
	for _, f := range r.Files {
		out[f.Path] = f.Kind
	}
	return out
}

func TestDiff_NeverBuilt(t *testing.T) {
	base := fixture(t)

	report, err := New(base).Diff()
	require.NoError(t, err)
	assert.Empty(t, report.PreviousBuild)
	assert.True(t, report.HasChanges())
	assert.Equal(t, len(report.Files), report.Count(Added))
}

func TestDiff_RoundTrip(t *testing.T) {
	base := fixture(t)
	b := New(base)
	_, err := b.Build(BuildOptions{})
	require.NoError(t, err)

	report, err := b.Diff()
	require.NoError(t, err)
	assert.NotEmpty(t, report.PreviousBuild)
	assert.Zero(t, report.Count(Modified))
	assert.Zero(t, report.Count(Added))
	assert.Zero(t, report.Count(Missing))
	assert.False(t, report.HasChanges())
	assert.Empty(t, report.Patch())
	assert.Empty(t, report.Errors)
}

func TestDiff_Classification(t *testing.T) {
	base := fixture(t)
	b := New(base)
	_, err := b.Build(BuildOptions{})
	require.NoError(t, err)

	// Whitespace-only edits are not modifications.
	testutil.WriteFile(t, filepath.Join(base, "commands", "ship.md"), "Ship the branch.   \n\n\n")
	testutil.WriteFile(t, filepath.Join(base, "rules", "20-docs.md"), "# Documentation\n")
	testutil.WriteFile(t, filepath.Join(base, "hooks", "leftover.sh"), "#!/bin/sh\n")
	testutil.WriteFile(t, filepath.Join(base, "extensions", "git", "commands", "new.md"), "new\n")

	report, err := b.Diff()
	require.NoError(t, err)

	k := kinds(report)
	assert.Equal(t, Identical, k["commands/ship.md"])
	assert.Equal(t, Modified, k["rules/20-docs.md"])
	assert.Equal(t, Missing, k["hooks/leftover.sh"])
	assert.Equal(t, Added, k["commands/new.md"])
	assert.Equal(t, Identical, k["settings.json"])

	patch := report.Patch()
	assert.Contains(t, patch, "--- a/rules/20-docs.md")
	assert.Contains(t, patch, "-# Documentation")
	assert.Contains(t, patch, "+# Docs")
	assert.Contains(t, patch, "+++ /dev/null")
	assert.Contains(t, patch, "--- /dev/null")
}

func TestDiff_ReportsValidationErrors(t *testing.T) {
	base := fixture(t)
	testutil.Extension(t, base, "clash", "name: clash\nrule_number_range: [15, 25]\n", nil)

	report, err := New(base).Diff()
	require.NoError(t, err)
	require.NotEmpty(t, report.Errors)
	assert.True(t, strings.HasPrefix(report.Errors[0], "Rule number range conflict"))
	assert.Empty(t, report.Warnings)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a  \nb\t\n", "a\nb\n"},
		{"a", "a\n"},
		{"a\n\n\n", "a\n"},
		{"a\r\nb\r\n", "a\nb\n"},
		{"", "\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(Normalize([]byte(tt.in))), "%q", tt.in)
	}

	raw := []byte{0xff, 0xfe, ' ', '\n'}
	assert.Equal(t, raw, Normalize(raw))
}

func TestFileDiff_Binary(t *testing.T) {
	d := FileDiff{Path: "hooks/bin", Kind: Modified, Expected: []byte{0xff}, Actual: []byte{0xfe}}
	assert.True(t, d.Binary())
	assert.Equal(t, "Binary files a/hooks/bin and b/hooks/bin differ\n", d.Patch())
}

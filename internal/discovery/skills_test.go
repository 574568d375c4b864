package discovery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/666666ma999999/claudecode/internal/testutil"
)

func TestListSkills(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "git", `name: git
routing:
  - triggers: [commit]
    skill: git-commit
`, map[string]string{
		"skills/git-commit/SKILL.md": "---\nname: git-commit\ndescription: Write commit messages\n---\n\n# Commit\n",
		"skills/git-blame/SKILL.md":  "# no front matter\n",
		"skills/not-a-dir.md":        "ignored",
	})

	exts, err := Discover(testutil.ExtensionsDir(base), nil)
	require.NoError(t, err)

	skills, err := ListSkills(exts)
	require.NoError(t, err)
	require.Len(t, skills, 2)

	assert.Equal(t, "git-blame", skills[0].Name)
	assert.Empty(t, skills[0].Description)
	assert.False(t, skills[0].Routed)

	assert.Equal(t, "git-commit", skills[1].Name)
	assert.Equal(t, "Write commit messages", skills[1].Description)
	assert.True(t, skills[1].Routed)
	assert.Equal(t, "git", skills[1].Extension)
	assert.Equal(t, filepath.Join(exts[0].Dir, "skills", "git-commit"), skills[1].Directory)
}

func TestSkillDirs_NoSkills(t *testing.T) {
	names, err := SkillDirs(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, names)
}

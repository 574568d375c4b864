package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/666666ma999999/claudecode/internal/testutil"
)

func TestConflicts_RangeOverlapPairs(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "a", "name: a\nrule_number_range: [0, 10]\n", nil)
	testutil.Extension(t, base, "b", "name: b\nrule_number_range: [5, 15]\n", nil)
	testutil.Extension(t, base, "c", "name: c\nrule_number_range: [12, 20]\n", nil)

	errs := ValidateConflicts(discover(t, base))
	require.Len(t, errs, 2)
	assert.Equal(t, "Rule number range conflict: 'a' [0-10] overlaps with 'b' [5-15]", errs[0])
	assert.Equal(t, "Rule number range conflict: 'b' [5-15] overlaps with 'c' [12-20]", errs[1])
}

func TestConflicts_TouchingRangesOverlap(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "a", "name: a\nrule_number_range: [0, 10]\n", nil)
	testutil.Extension(t, base, "b", "name: b\nrule_number_range: [10, 20]\n", nil)
	testutil.Extension(t, base, "c", "name: c\nrule_number_range: [21, 30]\n", nil)

	errs := ValidateConflicts(discover(t, base))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "'a' [0-10] overlaps with 'b' [10-20]")
}

func TestConflicts_DuplicateSkill(t *testing.T) {
	base := testutil.BaseDir(t)
	route := "routing:\n  - triggers: [t]\n    skill: x\n"
	testutil.Extension(t, base, "zed", "name: zed\n"+route, nil)
	testutil.Extension(t, base, "amy", "name: amy\n"+route, nil)

	errs := ValidateConflicts(discover(t, base))
	require.Len(t, errs, 1)
	assert.Equal(t, "Duplicate skill 'x' found in extensions: amy, zed", errs[0])
}

func TestConflicts_SameExtensionTwiceIsNotDuplicate(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "solo", `name: solo
routing:
  - triggers: [a]
    skill: x
  - triggers: [b]
    skill: x
`, nil)

	assert.Empty(t, ValidateConflicts(discover(t, base)))
}

func TestConflicts_HookBasenamePerEvent(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "one", `name: one
hooks:
  PreToolUse:
    - script: hooks/check.sh
  Stop:
    - script: hooks/done.sh
`, nil)
	testutil.Extension(t, base, "two", `name: two
hooks:
  PreToolUse:
    - script: hooks/sub/check.sh
  SessionStart:
    - script: hooks/done.sh
`, nil)

	errs := ValidateConflicts(discover(t, base))
	require.Len(t, errs, 1, "different events may reuse a basename")
	assert.Equal(t, "Duplicate hook script 'check.sh' for event 'PreToolUse' in extensions: one, two", errs[0])
}

func TestConflicts_DuplicateCommands(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "one", "name: one\n", map[string]string{
		"commands/deploy.md": "x",
		"commands/lint.md":   "x",
	})
	testutil.Extension(t, base, "two", "name: two\n", map[string]string{
		"commands/deploy.md":      "x",
		"commands/nested/lint.md": "nested files are not commands",
	})

	errs := ValidateConflicts(discover(t, base))
	require.Len(t, errs, 1)
	assert.Equal(t, "Duplicate command 'deploy.md' found in extensions: one, two", errs[0])
}

func TestConflicts_DuplicateExtensionName(t *testing.T) {
	base := testutil.BaseDir(t)
	testutil.Extension(t, base, "two", "name: dup\n", nil)
	testutil.Extension(t, base, "one", "name: dup\n", nil)
	testutil.Extension(t, base, "three", "name: other\n", nil)

	errs := ValidateConflicts(discover(t, base))
	require.Len(t, errs, 1)
	assert.Equal(t, "Duplicate extension name 'dup' found in directories: one, two", errs[0])
}

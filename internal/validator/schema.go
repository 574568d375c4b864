package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/manifest"
)

var (
	namePattern       = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	ruleNumberPattern = regexp.MustCompile(`^(\d+)`)
)

// ValidName reports whether name is an acceptable extension name:
// lowercase words joined by single hyphens.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidateSchema checks a single extension against its own directory.
func ValidateSchema(ext discovery.Extension) []string {
	m := ext.Manifest
	name := m.Name
	var errs []string

	if !ValidName(name) {
		errs = append(errs, fmt.Sprintf(
			"[%s] Extension name '%s' is not valid kebab-case (expected pattern: lowercase-words-joined-by-hyphens)",
			name, name))
	}

	if _, err := semver.NewVersion(m.Version); err != nil {
		errs = append(errs, fmt.Sprintf(
			"[%s] Version '%s' is not a valid semantic version", name, m.Version))
	}

	m.EachHook(func(event manifest.HookEvent, hook manifest.HookDef) {
		scriptPath := ext.Path(filepath.FromSlash(hook.Script))
		if _, err := os.Stat(scriptPath); err != nil {
			errs = append(errs, fmt.Sprintf(
				"[%s] Hook script not found: %s (event: %s, expected at: %s)",
				name, hook.Script, event, scriptPath))
		}
	})

	rangeOK := false
	if m.HasRuleRange() {
		switch start, end, ok := m.RuleRange(); {
		case !ok:
			errs = append(errs, fmt.Sprintf(
				"[%s] rule_number_range must have exactly 2 elements, got %d",
				name, len(m.RuleNumberRange)))
		case start > end:
			errs = append(errs, fmt.Sprintf(
				"[%s] rule_number_range start (%d) > end (%d)", name, start, end))
		default:
			rangeOK = true
		}
	}

	for _, entry := range m.Routing {
		skillDir := ext.Path("skills", entry.Skill)
		if !isDir(skillDir) {
			errs = append(errs, fmt.Sprintf(
				"[%s] Routing references skill '%s' but directory not found: %s",
				name, entry.Skill, skillDir))
		}
	}

	if rangeOK {
		errs = append(errs, checkRuleNumbers(ext)...)
	}

	return errs
}

// checkRuleNumbers verifies that numeric rule file prefixes fall inside the
// declared range. Files without a leading number are not checked.
func checkRuleNumbers(ext discovery.Extension) []string {
	start, end, _ := ext.Manifest.RuleRange()

	matches, err := filepath.Glob(ext.Path("rules", "*.md"))
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var errs []string
	for _, path := range matches {
		base := filepath.Base(path)
		digits := ruleNumberPattern.FindString(base)
		if digits == "" {
			continue
		}
		num, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if num < start || num > end {
			errs = append(errs, fmt.Sprintf(
				"[%s] Rule file '%s' has number %d outside declared range [%d, %d]",
				ext.Name(), base, num, start, end))
		}
	}
	return errs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

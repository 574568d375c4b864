package validator

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/666666ma999999/claudecode/internal/discovery"
	"github.com/666666ma999999/claudecode/internal/manifest"
)

// ValidateConflicts runs the cross-extension checks over the whole set.
func ValidateConflicts(exts []discovery.Extension) []string {
	var errs []string
	errs = append(errs, checkDuplicateNames(exts)...)
	errs = append(errs, checkRangeOverlaps(exts)...)
	errs = append(errs, checkDuplicateSkills(exts)...)
	errs = append(errs, checkDuplicateHookScripts(exts)...)
	errs = append(errs, checkDuplicateCommands(exts)...)
	return errs
}

type ruleRange struct {
	name       string
	start, end int
}

// checkRangeOverlaps reports every overlapping pair of closed intervals.
// Malformed ranges are skipped; the schema check reports them.
func checkRangeOverlaps(exts []discovery.Extension) []string {
	var ranges []ruleRange
	for _, ext := range exts {
		if start, end, ok := ext.Manifest.RuleRange(); ok {
			ranges = append(ranges, ruleRange{ext.Name(), start, end})
		}
	}

	var errs []string
	for i, a := range ranges {
		for _, b := range ranges[i+1:] {
			if a.start <= b.end && b.start <= a.end {
				errs = append(errs, fmt.Sprintf(
					"Rule number range conflict: '%s' [%d-%d] overlaps with '%s' [%d-%d]",
					a.name, a.start, a.end, b.name, b.start, b.end))
			}
		}
	}
	return errs
}

// owners groups extension names under a key, remembering first-seen key
// order and counting each extension once per key.
type owners struct {
	keys  []string
	names map[string][]string
}

func newOwners() *owners {
	return &owners{names: map[string][]string{}}
}

func (o *owners) add(key, ext string) {
	list, seen := o.names[key]
	if !seen {
		o.keys = append(o.keys, key)
	}
	for _, n := range list {
		if n == ext {
			return
		}
	}
	o.names[key] = append(list, ext)
}

// duplicates calls fn for every key claimed by more than one extension, with
// the owners sorted.
func (o *owners) duplicates(fn func(key string, exts []string)) {
	for _, key := range o.keys {
		list := o.names[key]
		if len(list) < 2 {
			continue
		}
		sorted := append([]string(nil), list...)
		sort.Strings(sorted)
		fn(key, sorted)
	}
}

func checkDuplicateNames(exts []discovery.Extension) []string {
	dirs := newOwners()
	for _, ext := range exts {
		dirs.add(ext.Name(), filepath.Base(ext.Dir))
	}

	var errs []string
	dirs.duplicates(func(name string, found []string) {
		errs = append(errs, fmt.Sprintf(
			"Duplicate extension name '%s' found in directories: %s", name, strings.Join(found, ", ")))
	})
	return errs
}

func checkDuplicateSkills(exts []discovery.Extension) []string {
	skills := newOwners()
	for _, ext := range exts {
		for _, entry := range ext.Manifest.Routing {
			skills.add(entry.Skill, ext.Name())
		}
	}

	var errs []string
	skills.duplicates(func(skill string, names []string) {
		errs = append(errs, fmt.Sprintf(
			"Duplicate skill '%s' found in extensions: %s", skill, strings.Join(names, ", ")))
	})
	return errs
}

// checkDuplicateHookScripts compares script basenames only, so hooks/a.sh and
// hooks/sub/a.sh under the same event collide.
func checkDuplicateHookScripts(exts []discovery.Extension) []string {
	var errs []string
	for _, event := range manifest.HookEvents() {
		scripts := newOwners()
		for _, ext := range exts {
			for _, hook := range ext.Manifest.Hooks[event] {
				scripts.add(path.Base(hook.Script), ext.Name())
			}
		}
		scripts.duplicates(func(script string, names []string) {
			errs = append(errs, fmt.Sprintf(
				"Duplicate hook script '%s' for event '%s' in extensions: %s",
				script, event, strings.Join(names, ", ")))
		})
	}
	return errs
}

func checkDuplicateCommands(exts []discovery.Extension) []string {
	commands := newOwners()
	for _, ext := range exts {
		for _, file := range commandFiles(ext) {
			commands.add(file, ext.Name())
		}
	}

	var errs []string
	commands.duplicates(func(file string, names []string) {
		errs = append(errs, fmt.Sprintf(
			"Duplicate command '%s' found in extensions: %s", file, strings.Join(names, ", ")))
	})
	return errs
}

// commandFiles lists regular files directly under <ext>/commands, sorted.
func commandFiles(ext discovery.Extension) []string {
	entries, err := os.ReadDir(ext.Path("commands"))
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files
}

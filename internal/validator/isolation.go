package validator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/666666ma999999/claudecode/internal/discovery"
)

// scanDirs are the extension subtrees searched for cross references.
var scanDirs = []string{"skills", "rules", "hooks", "commands"}

// scanPattern selects the text files worth searching.
const scanPattern = "**/*.{md,py,sh,yaml,yml,txt}"

// refSets holds what every other extension owns.
type refSets struct {
	extensions []string
	skills     []string
	commands   []string
}

// ownership is what the scanning extension itself owns.
type ownership struct {
	skills   map[string]bool
	commands map[string]bool
}

// ValidateIsolation scans ext's text files for references to the other
// extensions in all. ext itself is identified by directory, so duplicate
// manifest names do not hide each other.
func ValidateIsolation(ext discovery.Extension, all []discovery.Extension) []string {
	refs := collectRefs(ext, all)
	if len(refs.extensions) == 0 && len(refs.skills) == 0 {
		return nil
	}
	own := ownedBy(ext)

	pathRefs := make([]*regexp.Regexp, len(refs.extensions))
	for i, name := range refs.extensions {
		pathRefs[i] = regexp.MustCompile(`extensions/` + regexp.QuoteMeta(name) + `(?:/|\b)`)
	}
	skillRefs := tokenPatterns(refs.skills)
	commandRefs := tokenPatterns(refs.commands)

	var errs []string
	for _, dir := range scanDirs {
		root := ext.Path(dir)
		if !isDir(root) {
			continue
		}

		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			relToDir, err := filepath.Rel(root, p)
			if err != nil {
				return nil
			}
			if ok, _ := doublestar.Match(scanPattern, filepath.ToSlash(relToDir)); !ok {
				return nil
			}

			data, err := os.ReadFile(p)
			if err != nil || !utf8.Valid(data) {
				return nil
			}
			content := string(data)
			rel := filepath.ToSlash(filepath.Join(dir, relToDir))

			for i, re := range pathRefs {
				if re.MatchString(content) {
					errs = append(errs, fmt.Sprintf(
						"[%s] File '%s' references other extension path: 'extensions/%s'",
						ext.Name(), rel, refs.extensions[i]))
				}
			}

			for i, re := range skillRefs {
				skill := refs.skills[i]
				if own.skills[skill] || !re.MatchString(content) {
					continue
				}
				errs = append(errs, fmt.Sprintf(
					"[%s] File '%s' references skill '%s' from another extension",
					ext.Name(), rel, skill))
			}

			if dir == "commands" {
				for i, re := range commandRefs {
					cmd := refs.commands[i]
					if own.commands[cmd] || !re.MatchString(content) {
						continue
					}
					errs = append(errs, fmt.Sprintf(
						"[%s] Command file '%s' references command '%s' from another extension",
						ext.Name(), rel, cmd))
				}
			}
			return nil
		})
	}
	return errs
}

// tokenPatterns matches each name as a standalone token: the characters on
// either side must not be letters, digits, underscores or hyphens.
func tokenPatterns(names []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(names))
	for i, n := range names {
		out[i] = regexp.MustCompile(`(?:^|[^a-zA-Z0-9_-])` + regexp.QuoteMeta(n) + `(?:$|[^a-zA-Z0-9_-])`)
	}
	return out
}

func collectRefs(ext discovery.Extension, all []discovery.Extension) refSets {
	names := map[string]bool{}
	skills := map[string]bool{}
	commands := map[string]bool{}

	for _, other := range all {
		if other.Dir == ext.Dir {
			continue
		}
		names[other.Name()] = true
		for _, r := range other.Manifest.Routing {
			skills[r.Skill] = true
		}
		dirs, _ := discovery.SkillDirs(other.Dir)
		for _, s := range dirs {
			skills[s] = true
		}
		for _, f := range commandFiles(other) {
			commands[stem(f)] = true
		}
	}

	return refSets{
		extensions: sortedKeys(names),
		skills:     sortedKeys(skills),
		commands:   sortedKeys(commands),
	}
}

func ownedBy(ext discovery.Extension) ownership {
	own := ownership{skills: map[string]bool{}, commands: map[string]bool{}}
	for _, r := range ext.Manifest.Routing {
		own.skills[r.Skill] = true
	}
	dirs, _ := discovery.SkillDirs(ext.Dir)
	for _, s := range dirs {
		own.skills[s] = true
	}
	for _, f := range commandFiles(ext) {
		own.commands[stem(f)] = true
	}
	return own
}

func stem(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

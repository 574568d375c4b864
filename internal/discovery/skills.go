package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Skill describes a skill directory shipped by an extension.
type Skill struct {
	Name        string
	Extension   string
	Directory   string
	Description string // from SKILL.md front matter, empty if absent
	Routed      bool   // referenced by a routing entry of its extension
}

// ListSkills enumerates skills/<name>/ directories of every extension in
// order. Routing entries that point at a missing directory are not listed;
// the schema validator reports those.
func ListSkills(exts []Extension) ([]Skill, error) {
	var result []Skill

	for _, ext := range exts {
		routed := make(map[string]bool, len(ext.Manifest.Routing))
		for _, r := range ext.Manifest.Routing {
			routed[r.Skill] = true
		}

		names, err := SkillDirs(ext.Dir)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			dir := filepath.Join(ext.Dir, "skills", name)
			s := Skill{
				Name:      name,
				Extension: ext.Name(),
				Directory: dir,
				Routed:    routed[name],
			}
			if desc, err := skillDescription(filepath.Join(dir, skillFileName)); err == nil {
				s.Description = desc
			}
			result = append(result, s)
		}
	}

	return result, nil
}

// SkillDirs returns the sorted names of directories under <extDir>/skills.
func SkillDirs(extDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(extDir, "skills"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading skills of %s: %w", extDir, err)
	}

	var names []string
	for _, e := range entries {
		if isDir(filepath.Join(extDir, "skills", e.Name())) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// skillDescription reads the description field from SKILL.md front matter.
func skillDescription(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}

	desc, _ := meta.Get(pctx)["description"].(string)
	return desc, nil
}

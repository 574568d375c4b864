package builder

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"

	"github.com/666666ma999999/claudecode/internal/compiler"
	"github.com/666666ma999999/claudecode/internal/manifest"
)

// ChangeKind classifies one output path.
type ChangeKind string

const (
	Identical ChangeKind = "identical" // same normalized content on disk and in the build
	Modified  ChangeKind = "modified"  // present on both sides, content differs
	Added     ChangeKind = "added"     // produced by the build, absent on disk
	Missing   ChangeKind = "missing"   // on disk, no longer produced by the build
)

// FileDiff is the comparison result for one path. Expected is what a build
// would write, Actual is what is on disk; both are normalized.
type FileDiff struct {
	Path     string
	Kind     ChangeKind
	Expected []byte
	Actual   []byte
}

// Binary reports whether either side is not valid UTF-8.
func (d FileDiff) Binary() bool {
	return (d.Expected != nil && !utf8.Valid(d.Expected)) || (d.Actual != nil && !utf8.Valid(d.Actual))
}

// Patch renders a unified diff from the on-disk content to the built content.
// Identical paths yield an empty string.
func (d FileDiff) Patch() string {
	if d.Kind == Identical {
		return ""
	}
	if d.Binary() {
		return fmt.Sprintf("Binary files a/%s and b/%s differ\n", d.Path, d.Path)
	}
	oldLabel, newLabel := "a/"+d.Path, "b/"+d.Path
	switch d.Kind {
	case Added:
		oldLabel = "/dev/null"
	case Missing:
		newLabel = "/dev/null"
	}
	return udiff.Unified(oldLabel, newLabel, string(d.Actual), string(d.Expected))
}

// DiffReport compares the output tree on disk with a fresh dry-run build.
type DiffReport struct {
	Files         []FileDiff // sorted by path
	Errors        []string   // validation findings of the dry run
	Warnings      []string
	PreviousBuild string // built_at of the recorded build, empty if none
}

// Count returns the number of paths of the given kind.
func (r *DiffReport) Count(kind ChangeKind) int {
	n := 0
	for _, f := range r.Files {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Changes returns every non-identical entry.
func (r *DiffReport) Changes() []FileDiff {
	var out []FileDiff
	for _, f := range r.Files {
		if f.Kind != Identical {
			out = append(out, f)
		}
	}
	return out
}

// HasChanges reports whether a build would change anything on disk.
func (r *DiffReport) HasChanges() bool {
	return len(r.Changes()) > 0
}

// Patch concatenates the unified diffs of every change.
func (r *DiffReport) Patch() string {
	var b strings.Builder
	for _, f := range r.Changes() {
		b.WriteString(f.Patch())
	}
	return b.String()
}

// Diff runs a forced dry-run build with content capture and compares the
// result with the current contents of the output locations.
func (b *Builder) Diff() (*DiffReport, error) {
	expected := compiler.ContentMap{}
	res, violations, err := b.run(BuildOptions{Force: true, DryRun: true}, expected)
	if err != nil {
		return nil, err
	}

	actual, err := b.scanOutputs()
	if err != nil {
		return nil, err
	}

	report := &DiffReport{
		Errors:   violations,
		Warnings: nonViolationWarnings(res.Warnings, violations),
	}
	if bm, err := manifest.LoadBuildManifest(b.BuildManifestPath()); err == nil && bm != nil {
		report.PreviousBuild = bm.BuiltAt
	}

	paths := map[string]bool{}
	for p := range expected {
		paths[p] = true
	}
	for p := range actual {
		paths[p] = true
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	for _, p := range sorted {
		want, inBuild := expected[p]
		have, onDisk := actual[p]

		d := FileDiff{Path: p}
		if inBuild {
			d.Expected = Normalize(want)
		}
		if onDisk {
			d.Actual = Normalize(have)
		}

		switch {
		case inBuild && onDisk:
			if bytes.Equal(d.Expected, d.Actual) {
				d.Kind = Identical
			} else {
				d.Kind = Modified
			}
		case inBuild:
			d.Kind = Added
		default:
			d.Kind = Missing
		}
		report.Files = append(report.Files, d)
	}

	b.log.Debug().
		Int("identical", report.Count(Identical)).
		Int("modified", report.Count(Modified)).
		Int("added", report.Count(Added)).
		Int("missing", report.Count(Missing)).
		Msg("Diff complete")
	return report, nil
}

// scanOutputs reads every file currently in the output locations.
func (b *Builder) scanOutputs() (map[string][]byte, error) {
	out := map[string][]byte{}

	for _, kind := range compiler.OutputDirs {
		root := filepath.Join(b.BaseDir, kind)
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return filepath.SkipDir
			}
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(b.BaseDir, p)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			out[filepath.ToSlash(rel)] = data
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
	}

	for _, rel := range []string{compiler.SettingsFile, compiler.ContextFile} {
		data, err := os.ReadFile(filepath.Join(b.BaseDir, filepath.FromSlash(rel)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		out[path.Clean(rel)] = data
	}

	return out, nil
}

// Normalize trims trailing whitespace from every line and ends the text
// with exactly one newline. Content that is not valid UTF-8 is returned
// unchanged.
func Normalize(data []byte) []byte {
	if !utf8.Valid(data) {
		return data
	}
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	text := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	return []byte(text + "\n")
}

func nonViolationWarnings(warnings, violations []string) []string {
	skip := make(map[string]int, len(violations))
	for _, v := range violations {
		skip[v]++
	}
	var out []string
	for _, w := range warnings {
		if skip[w] > 0 {
			skip[w]--
			continue
		}
		out = append(out, w)
	}
	return out
}

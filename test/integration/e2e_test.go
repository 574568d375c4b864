//go:build integration

package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/666666ma999999/claudecode/internal/builder"
	"github.com/666666ma999999/claudecode/internal/manifest"
	"github.com/666666ma999999/claudecode/internal/scaffold"
)

// TestFullFlowBuildDiffClean covers build -> diff -> edit -> diff -> clean.
func TestFullFlowBuildDiffClean(t *testing.T) {
	env := setupTestEnv(t)
	setupExtensions(t, env)
	b := builder.New(env.BaseDir)

	// Step 1: Build.
	res, err := b.Build(builder.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !res.Success {
		t.Fatalf("Build failed: %v", res.Errors)
	}

	for _, rel := range []string{
		"rules/10-git.md",
		"rules/20-review.md",
		"rules/30-routing.md",
		"skills/git-commit/SKILL.md",
		"skills/code-review/SKILL.md",
		"hooks/git-guard.sh",
		"commands/ship.md",
		"CLAUDE.md",
		"settings.json",
		manifest.BuildManifestFileName,
	} {
		assertFileExists(t, filepath.Join(env.BaseDir, rel))
	}
	assertFileContains(t, filepath.Join(env.BaseDir, "rules/30-routing.md"), "| commit, pull request | `git-commit` |")
	assertFileContains(t, filepath.Join(env.BaseDir, "CLAUDE.md"), "Keep commits small.")

	// Step 2: settings.json merges base, permissions and hooks.
	var settings map[string]any
	data, err := os.ReadFile(filepath.Join(env.BaseDir, "settings.json"))
	if err != nil {
		t.Fatalf("reading settings.json: %v", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("parsing settings.json: %v", err)
	}
	allow := settings["permissions"].(map[string]any)["allow"].([]any)
	if len(allow) != 2 {
		t.Errorf("permissions.allow = %v, want Read and Bash(git:*)", allow)
	}
	hooks := settings["hooks"].(map[string]any)
	if _, ok := hooks["PreToolUse"]; !ok {
		t.Errorf("settings hooks missing PreToolUse: %v", hooks)
	}
	if stop := hooks["Stop"].([]any); len(stop) != 1 {
		t.Errorf("base Stop hooks not preserved: %v", stop)
	}

	// Step 3: A fresh build has nothing to diff.
	report, err := b.Diff()
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if report.HasChanges() {
		t.Fatalf("expected no changes after build, got %v", report.Changes())
	}

	// Step 4: Hand edits and stray files show up.
	writeFile(t, filepath.Join(env.BaseDir, "rules/10-git.md"), "# Edited by hand\n")
	writeFile(t, filepath.Join(env.BaseDir, "commands/stray.md"), "stray\n")
	report, err = b.Diff()
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if got := report.Count(builder.Modified); got != 1 {
		t.Errorf("modified = %d, want 1", got)
	}
	if got := report.Count(builder.Missing); got != 1 {
		t.Errorf("missing = %d, want 1", got)
	}

	// Step 5: Clean removes recorded outputs only.
	removed, err := b.Clean()
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(removed) == 0 {
		t.Fatal("Clean removed nothing")
	}
	assertFileNotExists(t, filepath.Join(env.BaseDir, "rules/10-git.md"))
	assertFileNotExists(t, filepath.Join(env.BaseDir, manifest.BuildManifestFileName))
	assertFileExists(t, filepath.Join(env.BaseDir, "commands/stray.md"))
	assertFileExists(t, filepath.Join(env.BaseDir, "settings.local.json"))
}

// TestFullFlowDisableRebuild checks that disabling an extension drops its
// outputs on the next build.
func TestFullFlowDisableRebuild(t *testing.T) {
	env := setupTestEnv(t)
	setupExtensions(t, env)
	b := builder.New(env.BaseDir)

	if _, err := b.Build(builder.BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertFileExists(t, filepath.Join(env.BaseDir, "rules/20-review.md"))

	regPath := filepath.Join(env.ExtensionsDir, manifest.RegistryFileName)
	if err := manifest.SetRegistryEntry(regPath, "review", false); err != nil {
		t.Fatalf("SetRegistryEntry: %v", err)
	}

	res, err := b.Build(builder.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Extensions) != 1 || res.Extensions[0] != "git" {
		t.Errorf("extensions = %v, want [git]", res.Extensions)
	}
	assertFileNotExists(t, filepath.Join(env.BaseDir, "rules/20-review.md"))
	assertFileNotExists(t, filepath.Join(env.BaseDir, "skills/code-review"))
}

// TestFullFlowScaffoldThenBuild checks that a freshly scaffolded extension
// passes validation and builds alongside existing ones.
func TestFullFlowScaffoldThenBuild(t *testing.T) {
	env := setupTestEnv(t)
	setupExtensions(t, env)

	data := scaffold.NewData("lint")
	if err := data.SetRuleRange("40-49"); err != nil {
		t.Fatalf("SetRuleRange: %v", err)
	}
	gen, err := scaffold.Generate(env.ExtensionsDir, data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(gen.Warnings) > 0 {
		t.Errorf("unexpected scaffold warnings: %v", gen.Warnings)
	}
	writeFile(t, filepath.Join(gen.OutputDir, "rules/40-lint.md"), "# Lint\n")

	res, err := builder.New(env.BaseDir).Build(builder.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !res.Success {
		t.Fatalf("Build failed: %v", res.Errors)
	}
	assertFileExists(t, filepath.Join(env.BaseDir, "rules/40-lint.md"))
}

// TestFullFlowConflictBlocksBuild checks that validation errors leave the
// previous outputs untouched.
func TestFullFlowConflictBlocksBuild(t *testing.T) {
	env := setupTestEnv(t)
	setupExtensions(t, env)
	b := builder.New(env.BaseDir)

	if _, err := b.Build(builder.BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	writeManifest(t, env.ExtensionsDir, "copycat", `name: copycat
rule_number_range: [15, 16]
routing:
  - triggers: [commit]
    skill: git-commit
`)
	writeFile(t, filepath.Join(env.ExtensionsDir, "copycat/skills/git-commit/SKILL.md"), "dup\n")

	res, err := b.Build(builder.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Success {
		t.Fatal("expected validation failure")
	}
	if len(res.Errors) < 2 {
		t.Errorf("errors = %v, want range and skill conflicts", res.Errors)
	}
	assertFileContains(t, filepath.Join(env.BaseDir, "skills/git-commit/SKILL.md"), "Write good commits.")
}

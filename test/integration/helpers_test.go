//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated build root.
type testEnv struct {
	BaseDir       string // build root; outputs land here
	ExtensionsDir string // BaseDir/extensions
}

// setupTestEnv creates an empty build root and points HOME at a scratch
// directory so user configuration cannot leak into the run.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()
	env := &testEnv{
		BaseDir:       base,
		ExtensionsDir: filepath.Join(base, "extensions"),
	}
	if err := os.MkdirAll(env.ExtensionsDir, 0755); err != nil {
		t.Fatalf("creating extensions dir: %v", err)
	}
	return env
}

// setupExtensions lays out two cooperating extensions and a base settings
// file.
func setupExtensions(t *testing.T, env *testEnv) {
	t.Helper()

	writeFile(t, filepath.Join(env.BaseDir, "settings.local.json"), `{
  "permissions": {"allow": ["Read"]},
  "hooks": {"Stop": [{"hooks": [{"type": "command", "command": "notify"}]}]}
}
`)

	writeManifest(t, env.ExtensionsDir, "git", `name: git
version: 1.2.0
description: Git workflow
rule_number_range: [10, 19]
routing:
  - triggers: [commit, "pull request"]
    skill: git-commit
hooks:
  PreToolUse:
    - matcher: Bash
      script: hooks/git-guard.sh
permissions:
  allow: ["Bash(git:*)", "Read"]
claude_md_section: |
  ## Git
  Keep commits small.
`)
	writeFile(t, filepath.Join(env.ExtensionsDir, "git/rules/10-git.md"), "# Git\n")
	writeFile(t, filepath.Join(env.ExtensionsDir, "git/skills/git-commit/SKILL.md"), "---\nname: git-commit\n---\nWrite good commits.\n")
	writeExecutable(t, filepath.Join(env.ExtensionsDir, "git/hooks/git-guard.sh"), "#!/bin/sh\nexit 0\n")
	writeFile(t, filepath.Join(env.ExtensionsDir, "git/commands/ship.md"), "Ship it.\n")

	writeManifest(t, env.ExtensionsDir, "review", `name: review
version: 0.3.0
rule_number_range: [20, 29]
routing:
  - triggers: [review]
    skill: code-review
`)
	writeFile(t, filepath.Join(env.ExtensionsDir, "review/rules/20-review.md"), "# Review\n")
	writeFile(t, filepath.Join(env.ExtensionsDir, "review/skills/code-review/SKILL.md"), "Review carefully.\n")
}

// writeManifest creates extensionsDir/<name>/extension.yaml.
func writeManifest(t *testing.T, extensionsDir, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(extensionsDir, name, "extension.yaml"), content)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	writeFile(t, path, content)
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

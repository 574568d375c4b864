// Package config manages user-level settings stored at ~/.claude/claude-ext.yaml.
// It resolves the build root, the hook command prefix written into
// settings.json, and the log level, with CLAUDE_EXT_* environment overrides.
package config

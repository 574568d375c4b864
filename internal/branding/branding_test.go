package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedValues(t *testing.T) {
	assert.Equal(t, "claude-ext", CLIName())
	assert.Equal(t, ".claude", HomeDir())
	assert.Equal(t, "CLAUDE_EXT", EnvPrefix())
	assert.Equal(t, "claude-ext", ConfigName())
	assert.NotEmpty(t, Description())
	assert.NotEmpty(t, DisplayName())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "CLAUDE_EXT_BASE_DIR", EnvVar("base_dir"))
	assert.Equal(t, "CLAUDE_EXT_LOG_LEVEL", EnvVar("log_level"))
}

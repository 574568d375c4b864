package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := withHome(t)
	Load()

	assert.Equal(t, filepath.Join(home, ".claude"), BaseDir())
	assert.Equal(t, "~/.claude", HookCommandPrefix())
	assert.Equal(t, "warn", LogLevel())
}

func TestLoadEnvOverride(t *testing.T) {
	withHome(t)
	t.Setenv("CLAUDE_EXT_BASE_DIR", "/srv/claude")
	Load()

	assert.Equal(t, "/srv/claude", BaseDir())
}

func TestSetPersists(t *testing.T) {
	withHome(t)
	Load()

	require.NoError(t, Set(KeyLogLevel, "debug"))
	data, err := os.ReadFile(FilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: debug")

	viper.Reset()
	Load()
	assert.Equal(t, "debug", Get(KeyLogLevel))
}

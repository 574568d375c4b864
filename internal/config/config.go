package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/666666ma999999/claudecode/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Recognized configuration keys.
const (
	KeyBaseDir           = "base_dir"
	KeyHookCommandPrefix = "hook_command_prefix"
	KeyLogLevel          = "log_level"
)

// Dir returns the path to the user's Claude directory (~/.claude/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.claude/claude-ext.yaml).
func FilePath() string {
	return filepath.Join(Dir(), branding.ConfigName()+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyBaseDir, Dir())
	viper.SetDefault(KeyHookCommandPrefix, "~/"+branding.HomeDir())
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// BaseDir returns the build root that holds extensions/ and the compiled tree.
func BaseDir() string {
	return viper.GetString(KeyBaseDir)
}

// HookCommandPrefix returns the directory prefix written into settings.json
// hook commands, i.e. where the host application finds deployed hooks.
func HookCommandPrefix() string {
	return viper.GetString(KeyHookCommandPrefix)
}

// LogLevel returns the configured zerolog level name.
func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

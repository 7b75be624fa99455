// Package config loads dazzlelink configuration from file and
// environment. Components never read config files themselves; they
// receive values through the Config struct.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// TimestampConfig configures timestamp restoration for recreated links.
type TimestampConfig struct {
	Strategy      string `mapstructure:"strategy"`
	UseLiveTarget bool   `mapstructure:"use_live_target"`
	Verify        bool   `mapstructure:"verify"`
}

// JournalConfig configures the operation journal.
type JournalConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	// DefaultMode is what an executed dazzlelink does by default:
	// info, open, or auto.
	DefaultMode string `mapstructure:"default_mode"`

	// MakeExecutable writes exported records with the executable bit
	// and a script header so they can be run directly.
	MakeExecutable bool `mapstructure:"make_executable"`

	// KeepOriginals leaves the original links in place after export.
	KeepOriginals bool `mapstructure:"keep_originals"`

	// RecursiveScan descends into subdirectories when scanning for
	// links or records.
	RecursiveScan bool `mapstructure:"recursive_scan"`

	Timestamps TimestampConfig `mapstructure:"timestamps"`
	Journal    JournalConfig   `mapstructure:"journal"`
	Logging    LoggingConfig   `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/dazzlelink/config.yaml
//   - $HOME/.config/dazzlelink/config.yaml
//
// Environment variables are prefixed with DAZZLELINK_
// (e.g., DAZZLELINK_DEFAULT_MODE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "dazzlelink"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "dazzlelink"))

	v.SetEnvPrefix("DAZZLELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, homeDir)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in journal path if present
	if strings.HasPrefix(cfg.Journal.Path, "~") {
		cfg.Journal.Path = filepath.Join(homeDir, cfg.Journal.Path[1:])
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("default_mode", DefaultMode)
	v.SetDefault("make_executable", DefaultMakeExecutable)
	v.SetDefault("keep_originals", DefaultKeepOriginals)
	v.SetDefault("recursive_scan", DefaultRecursiveScan)

	v.SetDefault("timestamps.strategy", DefaultStrategy)
	v.SetDefault("timestamps.use_live_target", false)
	v.SetDefault("timestamps.verify", true)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.retention_days", DefaultRetentionDays)
	v.SetDefault("journal.path", filepath.Join(homeDir, ".config", "dazzlelink", ".journal"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"export":   "info",
		"recreate": "info",
		"check":    "info",
		"rebase":   "info",
	})
}

// DirectoryConfigName is the per-directory override file. A directory
// being exported or converted can carry its own settings, which take
// precedence over the global configuration.
const DirectoryConfigName = ".dazzlelink.yaml"

// MergeDirectory returns a copy of c overlaid with the settings found
// in dir's override file. Keys absent from the file keep their current
// values. A missing file returns c unchanged.
func (c *Config) MergeDirectory(dir string) (*Config, error) {
	path := filepath.Join(dir, DirectoryConfigName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to check directory config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return c, fmt.Errorf("failed to read directory config %s: %w", path, err)
	}

	merged := *c
	if err := v.Unmarshal(&merged); err != nil {
		return c, fmt.Errorf("failed to unmarshal directory config %s: %w", path, err)
	}
	return &merged, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "dazzlelink"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "dazzlelink"), nil
}

// JournalDir returns the journal directory path.
func JournalDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".journal"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// EnsureJournalDir creates the journal directory if it doesn't exist.
func EnsureJournalDir() error {
	dir, err := JournalDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	journalDir, err := JournalDir()
	if err != nil {
		return err
	}

	defaultConfig := fmt.Sprintf(`# Dazzlelink Configuration

# Default action when a dazzlelink is executed: info, open, auto
default_mode: %s

# Write exported records with a script header and the executable bit
make_executable: %v

# Leave original links in place after export
keep_originals: %v

# Descend into subdirectories when scanning
recursive_scan: %v

# Timestamp restoration for recreated links
timestamps:
  # Strategy: current, symlink, target, preserve-all
  strategy: %s
  # Prefer the live target's timestamps over recorded ones
  use_live_target: false
  # Read timestamps back after applying and retry on divergence
  verify: true

# Journal settings for tracking import/export history
journal:
  enabled: true
  path: %s
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/dazzlelink/dazzlelink.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    export: info
    recreate: info
    check: info
    rebase: info
`, DefaultMode, DefaultMakeExecutable, DefaultKeepOriginals, DefaultRecursiveScan,
		DefaultStrategy, journalDir, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/dazzlelink/.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "dazzlelink")
}

// StateDir returns $XDG_STATE_HOME/dazzlelink/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "dazzlelink")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "dazzlelink.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

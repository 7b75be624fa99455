package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage dazzlelink configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/dazzlelink/config.yaml (if set)
  2. ~/.config/dazzlelink/config.yaml

Environment variables can override config file settings using the
DAZZLELINK_ prefix:
  DAZZLELINK_DEFAULT_MODE=open
  DAZZLELINK_TIMESTAMPS_STRATEGY=symlink
  DAZZLELINK_JOURNAL_ENABLED=false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		cfg = &config.Config{
			DefaultMode:    config.DefaultMode,
			MakeExecutable: config.DefaultMakeExecutable,
			KeepOriginals:  config.DefaultKeepOriginals,
			RecursiveScan:  config.DefaultRecursiveScan,
		}
		cfg.Timestamps.Strategy = config.DefaultStrategy
		cfg.Journal.Enabled = true
		cfg.Journal.RetentionDays = config.DefaultRetentionDays
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("default_mode:               %s\n", cfg.DefaultMode)
	fmt.Printf("make_executable:            %t\n", cfg.MakeExecutable)
	fmt.Printf("keep_originals:             %t\n", cfg.KeepOriginals)
	fmt.Printf("recursive_scan:             %t\n", cfg.RecursiveScan)
	fmt.Printf("timestamps.strategy:        %s\n", cfg.Timestamps.Strategy)
	fmt.Printf("timestamps.use_live_target: %t\n", cfg.Timestamps.UseLiveTarget)
	fmt.Printf("timestamps.verify:          %t\n", cfg.Timestamps.Verify)
	fmt.Printf("journal.enabled:            %t\n", cfg.Journal.Enabled)
	fmt.Printf("journal.path:               %s\n", cfg.Journal.Path)
	fmt.Printf("journal.retention:          %d days\n", cfg.Journal.RetentionDays)

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"DAZZLELINK_DEFAULT_MODE",
		"DAZZLELINK_MAKE_EXECUTABLE",
		"DAZZLELINK_KEEP_ORIGINALS",
		"DAZZLELINK_RECURSIVE_SCAN",
		"DAZZLELINK_TIMESTAMPS_STRATEGY",
		"DAZZLELINK_TIMESTAMPS_USE_LIVE_TARGET",
		"DAZZLELINK_TIMESTAMPS_VERIFY",
		"DAZZLELINK_JOURNAL_ENABLED",
		"DAZZLELINK_JOURNAL_PATH",
		"DAZZLELINK_JOURNAL_RETENTION_DAYS",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'dazzlelink config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}

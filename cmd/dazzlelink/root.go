package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/config"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dazzlelink",
		Short: "Preserve and recreate symbolic links as portable records",
		Long: `Dazzlelink captures symbolic links into portable .dazzlelink records
and recreates them later, on the same machine or a different one.

Records carry the link target, timestamps, attributes, and ownership, so
links survive archiving, network transfers, and filesystems that cannot
store them natively.

Examples:
  dazzlelink export ~/docs/report-link     # Capture one link
  dazzlelink convert -r ~/projects         # Capture every link in a tree
  dazzlelink import ~/projects             # Recreate links from records
  dazzlelink check --fix-relative ~/data   # Find and repair broken links
  dazzlelink rebase --base /old:/new ~/data
  dazzlelink history                       # View past operations`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dazzlelink/config.yaml)")
	rootCmd.PersistentFlags().BoolP("recursive", "r", false, "descend into subdirectories")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "output JSON format")
	rootCmd.PersistentFlags().BoolP("dry-run", "d", false, "preview without changing anything")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("recursive_scan", rootCmd.PersistentFlags().Lookup("recursive"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "dazzlelink"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "dazzlelink"))
		}
	}

	viper.SetEnvPrefix("DAZZLELINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("default_mode", config.DefaultMode)
	viper.SetDefault("make_executable", config.DefaultMakeExecutable)
	viper.SetDefault("keep_originals", config.DefaultKeepOriginals)
	viper.SetDefault("timestamps.strategy", config.DefaultStrategy)
	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.retention_days", config.DefaultRetentionDays)

	_ = viper.ReadInConfig()
}

// bootstrap loads the configuration and initializes logging from it.
// Commands that touch the filesystem call this first.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	}
	if maxSize, err := humanize.ParseBytes(cfg.Logging.Rotation.MaxSize); err == nil {
		logCfg.Rotation.MaxSize = int64(maxSize)
	}
	logCfg.Rotation.MaxAge = cfg.Logging.Rotation.MaxAge
	logCfg.Rotation.MaxBackups = cfg.Logging.Rotation.MaxBackups
	logCfg.Rotation.Daily = cfg.Logging.Rotation.Daily
	if getVerbose() {
		logCfg.Level = "debug"
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		// Logging is best effort; the command still runs.
		printVerbose("logging init failed: %v", err)
	}

	return cfg, nil
}

// getJournal returns the configured journal, or nil when journaling is
// disabled or unavailable.
func getJournal(cfg *config.Config) *journal.Journal {
	if cfg == nil || !cfg.Journal.Enabled {
		return nil
	}
	dir := cfg.Journal.Path
	if dir == "" {
		var err error
		dir, err = config.JournalDir()
		if err != nil {
			return nil
		}
	}
	j, err := journal.New(dir)
	if err != nil {
		return nil
	}
	if err := j.EnsureDir(); err != nil {
		return nil
	}
	return j
}

// recordJournal persists an operation outcome, best effort.
func recordJournal(cfg *config.Config, op journal.OperationType, dir string, links []journal.LinkRecord) {
	j := getJournal(cfg)
	if j == nil {
		return
	}
	if _, err := j.Log(op, dir, links); err != nil {
		printVerbose("journal write failed: %v", err)
	}
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	logging.Close()
	return err
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// getJSON returns true if JSON output is requested.
func getJSON() bool {
	return viper.GetBool("json")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

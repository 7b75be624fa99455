// Package config provides configuration management for dazzlelink.
package config

// Default configuration values for dazzlelink.
const (
	// DefaultMode is the default action when a dazzlelink is executed.
	DefaultMode = "info"

	// DefaultMakeExecutable controls whether exported records carry a
	// script header and the executable bit.
	DefaultMakeExecutable = false

	// DefaultKeepOriginals controls whether export leaves the original
	// links in place.
	DefaultKeepOriginals = true

	// DefaultRecursiveScan controls whether scans descend into
	// subdirectories.
	DefaultRecursiveScan = false

	// DefaultStrategy is the default timestamp restoration strategy.
	DefaultStrategy = "preserve-all"

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/dazzlelink"

	// DefaultRetentionDays is the default number of days to retain
	// journal entries.
	DefaultRetentionDays = 30
)

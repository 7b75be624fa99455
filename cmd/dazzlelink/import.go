package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/ops"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Recreate symbolic links from .dazzlelink records",
	Long: `Find record files under a directory and recreate the links they
describe.

Each record is recreated at its original path unless --target-location
moves the whole set under a new root. Failures are reported per record;
the run only fails when nothing could be recreated.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importTarget    string
	importFlatten   bool
	importPattern   string
	importRemove    bool
	importStrategy  string
	importUseLive   bool
	importUpdateRec bool
)

func init() {
	importCmd.Flags().StringVarP(&importTarget, "target-location", "t", "", "recreate links under this root instead of their original paths")
	importCmd.Flags().BoolVar(&importFlatten, "flatten", false, "ignore directory structure under the target location")
	importCmd.Flags().StringVarP(&importPattern, "pattern", "p", "", "only import records whose basename matches the glob")
	importCmd.Flags().BoolVar(&importRemove, "remove-records", false, "delete each record after successful recreation")
	importCmd.Flags().StringVarP(&importStrategy, "strategy", "s", "", "timestamp strategy (current, symlink, target, preserve-all)")
	importCmd.Flags().BoolVar(&importUseLive, "use-live-target", false, "prefer live target timestamps over recorded ones")
	importCmd.Flags().BoolVar(&importUpdateRec, "update-records", false, "write recreation details back into each record")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	strategyName := importStrategy
	if strategyName == "" {
		strategyName = cfg.Timestamps.Strategy
	}
	strategy, err := times.ParseStrategy(strategyName)
	if err != nil {
		return fmt.Errorf("invalid strategy: %w", err)
	}

	if importFlatten && importTarget == "" {
		return fmt.Errorf("--flatten requires --target-location")
	}

	report, err := ops.Import(args[0], ops.ImportOptions{
		Recursive:      cfg.RecursiveScan || viper.GetBool("recursive_scan"),
		Pattern:        importPattern,
		TargetLocation: importTarget,
		Flatten:        importFlatten,
		DryRun:         viper.GetBool("dry_run"),
		RemoveRecords:  importRemove,
		Strategy:       strategy,
		UseLiveTarget:  importUseLive || cfg.Timestamps.UseLiveTarget,
		UpdateRecord:   importUpdateRec,
	})
	if err != nil {
		return err
	}

	recordJournal(cfg, journal.OpImport, args[0], journalLinks(report))
	return printReport("import", report)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/config"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the history of export, import, check, and rebase operations.

The journal stores a record of every batch operation, including the
per-link outcomes.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific operation",
	Long:  `Display detailed information about a specific operation by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openJournal returns a journal instance with the configured directory.
func openJournal() (*journal.Journal, error) {
	cfg, err := config.Load()
	if err == nil && cfg.Journal.Path != "" {
		return journal.New(cfg.Journal.Path)
	}

	journalDir, dirErr := config.JournalDir()
	if dirErr != nil {
		return nil, fmt.Errorf("failed to get journal directory: %w", dirErr)
	}
	return journal.New(journalDir)
}

// runHistory lists recent operations.
func runHistory(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	entries, err := j.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'dazzlelink export <link>' or 'dazzlelink import <dir>' to record one.")
		return nil
	}

	if getJSON() {
		return printJSON(entries)
	}

	fmt.Printf("\n%-44s  %-8s  %-9s  %-7s  %-7s\n", "ID", "TYPE", "SUCCEEDED", "FAILED", "SKIPPED")
	fmt.Println(strings.Repeat("-", 84))

	for _, entry := range entries {
		fmt.Printf("%-44s  %-8s  %-9d  %-7d  %-7d\n",
			truncateString(entry.ID, 44),
			entry.Operation,
			entry.Summary.Succeeded,
			entry.Summary.Failed,
			entry.Summary.Skipped,
		)
	}

	fmt.Println(strings.Repeat("-", 84))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'dazzlelink history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	entry, err := j.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	if getJSON() {
		return printJSON(entry)
	}

	fmt.Println("\nOperation Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	fmt.Printf("Directory:  %s\n", entry.Directory)
	fmt.Printf("Succeeded:  %d\n", entry.Summary.Succeeded)
	fmt.Printf("Failed:     %d\n", entry.Summary.Failed)
	fmt.Printf("Skipped:    %d\n", entry.Summary.Skipped)

	if len(entry.Links) > 0 {
		fmt.Println("\nLinks:")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("%-8s  %s\n", "OUTCOME", "PATH")
		fmt.Println(strings.Repeat("-", 60))

		limit := 50
		if len(entry.Links) < limit {
			limit = len(entry.Links)
		}

		for i := 0; i < limit; i++ {
			l := entry.Links[i]
			fmt.Printf("%-8s  %s\n", l.Outcome, l.Path)
			if l.Detail != "" {
				fmt.Printf("%-8s    %s\n", "", l.Detail)
			}
		}

		if len(entry.Links) > limit {
			fmt.Printf("\n... and %d more links\n", len(entry.Links)-limit)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	retentionDays := cfg.Journal.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	if err := j.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete.")
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

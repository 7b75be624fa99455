package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/link"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase <dir>",
	Short: "Rewrite link targets in bulk",
	Long: `Rewrite the targets of symbolic links under a directory.

Targets can be converted between relative and absolute form, moved with
an old:new prefix rule, or relocated under a new base directory. Before
any link is rewritten a sibling <link>.backup symlink pointing at the
old target is created, so a rebase can always be undone by hand.

Examples:
  dazzlelink rebase --make-relative ~/data
  dazzlelink rebase --base /mnt/old:/mnt/new ~/data
  dazzlelink rebase --base /srv/files --only-broken ~/data`,
	Args: cobra.ExactArgs(1),
	RunE: runRebase,
}

var (
	rebaseMakeRelative bool
	rebaseMakeAbsolute bool
	rebaseBase         string
	rebaseOnlyBroken   bool
)

func init() {
	rebaseCmd.Flags().BoolVar(&rebaseMakeRelative, "make-relative", false, "convert absolute targets to relative form")
	rebaseCmd.Flags().BoolVar(&rebaseMakeAbsolute, "make-absolute", false, "convert relative targets to absolute form")
	rebaseCmd.Flags().StringVarP(&rebaseBase, "base", "b", "", "old:new prefix rewrite, or a bare directory to relocate targets under")
	rebaseCmd.Flags().BoolVar(&rebaseOnlyBroken, "only-broken", false, "leave links whose targets still resolve untouched")
	rootCmd.AddCommand(rebaseCmd)
}

func runRebase(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	if !rebaseMakeRelative && !rebaseMakeAbsolute && rebaseBase == "" {
		return fmt.Errorf("nothing to do: pass --make-relative, --make-absolute, or --base")
	}

	report, err := link.Rebase(args[0], link.RebaseOptions{
		Recursive:    cfg.RecursiveScan || viper.GetBool("recursive_scan"),
		MakeRelative: rebaseMakeRelative,
		MakeAbsolute: rebaseMakeAbsolute,
		BaseRule:     rebaseBase,
		OnlyBroken:   rebaseOnlyBroken,
		DryRun:       viper.GetBool("dry_run"),
	})
	if err != nil {
		return err
	}

	recordJournal(cfg, journal.OpRebase, args[0], rebaseJournalLinks(report))

	if getJSON() {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("rebase: %d changed, %d unchanged, %d errors",
			len(report.Changed), len(report.Unchanged), len(report.Errors))
		for _, c := range report.Changed {
			printInfo("%s: %s -> %s (%s)", c.Path, c.OldTarget, c.NewTarget, c.Reason)
		}
		for _, e := range report.Errors {
			printError("%s: %s", e.Path, e.Err)
		}
	}

	if len(report.Errors) > 0 {
		return fmt.Errorf("rebase hit %d errors", len(report.Errors))
	}
	return nil
}

func rebaseJournalLinks(report *link.RebaseReport) []journal.LinkRecord {
	links := make([]journal.LinkRecord, 0, len(report.Changed)+len(report.Unchanged)+len(report.Errors))
	for _, c := range report.Changed {
		links = append(links, journal.LinkRecord{
			Path: c.Path, Target: c.NewTarget,
			Outcome: journal.OutcomeSuccess, Detail: c.Reason,
		})
	}
	for _, p := range report.Unchanged {
		links = append(links, journal.LinkRecord{Path: p, Outcome: journal.OutcomeSkipped})
	}
	for _, e := range report.Errors {
		links = append(links, journal.LinkRecord{Path: e.Path, Outcome: journal.OutcomeError, Detail: e.Err})
	}
	return links
}

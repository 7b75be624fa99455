package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/link"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Classify links as working or broken, optionally repairing them",
	Long: `Inspect every symbolic link under a directory and report whether its
target still resolves.

With --fix-relative, broken links with relative targets are repaired by
searching nearby directories for a file with the same name: each of up
to --search-depth ancestor levels is walked and the first match in
lexical order wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var (
	checkFixRelative bool
	checkSearchDepth int
)

func init() {
	checkCmd.Flags().BoolVar(&checkFixRelative, "fix-relative", false, "repair broken relative links by searching for their target")
	checkCmd.Flags().IntVar(&checkSearchDepth, "search-depth", link.DefaultSearchDepth, "ancestor levels to search when repairing")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	report, err := link.Check(args[0], link.CheckOptions{
		Recursive:   cfg.RecursiveScan || viper.GetBool("recursive_scan"),
		FixRelative: checkFixRelative,
		DryRun:      viper.GetBool("dry_run"),
		SearchDepth: checkSearchDepth,
	})
	if err != nil {
		return err
	}

	recordJournal(cfg, journal.OpCheck, args[0], checkJournalLinks(report))

	if getJSON() {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("check: %d ok, %d broken, %d fixed",
			len(report.OK), len(report.Broken), len(report.Fixed))
		for _, f := range report.Fixed {
			printInfo("fixed %s: %s -> %s", f.Path, f.OldTarget, f.NewTarget)
		}
		for _, b := range report.Broken {
			printError("broken: %s", b)
		}
	}

	if len(report.Broken) > 0 {
		return fmt.Errorf("%d broken links remain", len(report.Broken))
	}
	return nil
}

func checkJournalLinks(report *link.CheckReport) []journal.LinkRecord {
	links := make([]journal.LinkRecord, 0, len(report.OK)+len(report.Broken)+len(report.Fixed))
	for _, p := range report.OK {
		links = append(links, journal.LinkRecord{Path: p, Outcome: journal.OutcomeSuccess})
	}
	for _, f := range report.Fixed {
		links = append(links, journal.LinkRecord{
			Path: f.Path, Target: f.NewTarget,
			Outcome: journal.OutcomeSuccess, Detail: "retargeted from " + f.OldTarget,
		})
	}
	for _, p := range report.Broken {
		links = append(links, journal.LinkRecord{Path: p, Outcome: journal.OutcomeError, Detail: "target missing"})
	}
	return links
}

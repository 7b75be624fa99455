package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/ops"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printReport summarizes a batch report in the requested format and
// returns an error when the batch counts as failed.
func printReport(verb string, report *ops.Report) error {
	if getJSON() {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("%s: %d succeeded, %d failed, %d skipped",
			verb, len(report.Succeeded), len(report.Failed), len(report.Skipped))
		for _, f := range report.Failed {
			printError("%s: %s", f.Path, f.Err)
		}
	}

	if !report.OK() {
		return fmt.Errorf("%s failed for all %d items", verb, len(report.Failed))
	}
	return nil
}

// journalLinks converts a batch report into journal link records.
func journalLinks(report *ops.Report) []journal.LinkRecord {
	links := make([]journal.LinkRecord, 0, len(report.Succeeded)+len(report.Failed)+len(report.Skipped))
	for _, p := range report.Succeeded {
		links = append(links, journal.LinkRecord{Path: p, Outcome: journal.OutcomeSuccess})
	}
	for _, f := range report.Failed {
		links = append(links, journal.LinkRecord{Path: f.Path, Outcome: journal.OutcomeError, Detail: f.Err})
	}
	for _, p := range report.Skipped {
		links = append(links, journal.LinkRecord{Path: p, Outcome: journal.OutcomeSkipped})
	}
	return links
}

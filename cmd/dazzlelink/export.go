package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/journal"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/ops"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/pathmap"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
)

var exportCmd = &cobra.Command{
	Use:   "export <link> [link...]",
	Short: "Capture symbolic links into .dazzlelink records",
	Long: `Serialize one or more symbolic links into portable record files.

By default each record is written next to its link as <link>.dazzlelink.
Use --output to choose a different destination for a single link.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

var (
	exportOutput     string
	exportExecutable bool
	exportMode       string
	exportAllowPlain bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path for the record (single link only)")
	exportCmd.Flags().BoolVarP(&exportExecutable, "executable", "x", false, "write the record as a self-executing script")
	exportCmd.Flags().StringVarP(&exportMode, "mode", "m", "", "default mode embedded in the record (info, open, auto)")
	exportCmd.Flags().BoolVar(&exportAllowPlain, "allow-plain", false, "record plain files and directories as their own target")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	if exportOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output requires exactly one link")
	}

	opts := ops.DefaultSerializeOptions()
	opts.Output = exportOutput
	opts.Mapper = pathmap.New()
	opts.RequireSymlink = !exportAllowPlain
	opts.MakeExecutable = exportExecutable || cfg.MakeExecutable

	mode := exportMode
	if mode == "" {
		mode = cfg.DefaultMode
	}
	switch record.Mode(mode) {
	case record.ModeInfo, record.ModeOpen, record.ModeAuto:
		opts.Mode = record.Mode(mode)
	default:
		return fmt.Errorf("invalid mode %q (want info, open, or auto)", mode)
	}

	report := &ops.Report{Succeeded: []string{}, Skipped: []string{}, Failed: []ops.ItemError{}}
	for _, linkPath := range args {
		linkOpts := opts
		if dirCfg, err := cfg.MergeDirectory(filepath.Dir(linkPath)); err == nil && dirCfg != cfg {
			linkOpts.MakeExecutable = exportExecutable || dirCfg.MakeExecutable
			if exportMode == "" {
				linkOpts.Mode = record.Mode(dirCfg.DefaultMode)
			}
		}
		recPath, err := ops.Serialize(linkPath, linkOpts)
		if err != nil {
			report.Failed = append(report.Failed, ops.ItemError{Path: linkPath, Err: err.Error()})
			continue
		}
		report.Succeeded = append(report.Succeeded, recPath)
		if !getJSON() {
			printInfo("%s -> %s", linkPath, recPath)
		}
	}

	recordJournal(cfg, journal.OpExport, ".", journalLinks(report))
	return printReport("export", report)
}

var convertCmd = &cobra.Command{
	Use:   "convert <dir>",
	Short: "Capture every symbolic link in a directory",
	Long: `Scan a directory for symbolic links and serialize each one into a
sibling .dazzlelink record.

With keep_originals disabled in the configuration the source links are
removed after a successful capture.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolP("executable", "x", false, "write records as self-executing scripts")
	convertCmd.Flags().Bool("keep-originals", true, "keep the source links after capture")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	executable, _ := cmd.Flags().GetBool("executable")

	if dirCfg, err := cfg.MergeDirectory(args[0]); err == nil {
		cfg = dirCfg
	}

	sOpts := ops.DefaultSerializeOptions()
	sOpts.Mapper = pathmap.New()
	sOpts.Mode = record.Mode(cfg.DefaultMode)

	keepOriginals := cfg.KeepOriginals
	if cmd.Flags().Changed("keep-originals") {
		keepOriginals, _ = cmd.Flags().GetBool("keep-originals")
	}

	report, err := ops.Convert(args[0], ops.ConvertOptions{
		Recursive:      cfg.RecursiveScan || viper.GetBool("recursive_scan"),
		KeepOriginals:  keepOriginals,
		MakeExecutable: executable || cfg.MakeExecutable,
		DryRun:         viper.GetBool("dry_run"),
		Serialize:      sOpts,
	})
	if err != nil {
		return err
	}

	recordJournal(cfg, journal.OpExport, args[0], journalLinks(report))
	return printReport("convert", report)
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror <src> <dest>",
	Short: "Mirror a tree of links into records under another root",
	Long: `Serialize every symbolic link under src into a record under dest,
preserving the relative directory layout. Source links are never
modified.`,
	Args: cobra.ExactArgs(2),
	RunE: runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	sOpts := ops.DefaultSerializeOptions()
	sOpts.Mapper = pathmap.New()
	sOpts.Mode = record.Mode(cfg.DefaultMode)

	report, err := ops.Mirror(args[0], args[1], ops.MirrorOptions{
		Recursive:      true,
		MakeExecutable: cfg.MakeExecutable,
		Serialize:      sOpts,
	})
	if err != nil {
		return err
	}

	recordJournal(cfg, journal.OpExport, args[0], journalLinks(report))
	return printReport("mirror", report)
}

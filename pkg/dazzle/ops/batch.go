package ops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/link"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/logging"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
	"github.com/djdarcy/dazzlelink/pkg/dazzle/times"
)

// ItemError records a single failed item in a batch run.
type ItemError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Report accumulates the outcome of a batch operation. A batch never
// aborts midway; every item lands in exactly one bucket.
type Report struct {
	Succeeded []string    `json:"succeeded"`
	Skipped   []string    `json:"skipped"`
	Failed    []ItemError `json:"failed"`
}

func newReport() *Report {
	return &Report{Succeeded: []string{}, Skipped: []string{}, Failed: []ItemError{}}
}

func (r *Report) success(path string) { r.Succeeded = append(r.Succeeded, path) }
func (r *Report) skip(path string)    { r.Skipped = append(r.Skipped, path) }
func (r *Report) fail(path string, err error) {
	r.Failed = append(r.Failed, ItemError{Path: path, Err: err.Error()})
}

// OK reports whether the batch counts as successful: failures only
// matter when nothing succeeded at all.
func (r *Report) OK() bool {
	return len(r.Failed) == 0 || len(r.Succeeded) > 0
}

// ImportOptions controls a batch recreation of records found on disk.
type ImportOptions struct {
	Recursive bool
	// Pattern filters record basenames with filepath.Match syntax.
	Pattern string
	// TargetLocation recreates the links under a new root instead of
	// their recorded original paths.
	TargetLocation string
	// Flatten drops the directory structure under TargetLocation.
	Flatten bool
	// DryRun reports what would be recreated without touching disk.
	DryRun bool
	// RemoveRecords deletes each record file after successful recreation.
	RemoveRecords bool

	Strategy      times.Strategy
	UseLiveTarget bool
	UpdateRecord  bool
}

// Import finds record files under dir and recreates each one. Per-item
// failures are collected, never propagated.
func Import(dir string, opts ImportOptions) (*Report, error) {
	log := logging.Get("import")
	report := newReport()

	records, err := link.ScanRecords(dir, opts.Recursive, record.Extension)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, recPath := range records {
		if opts.Pattern != "" {
			matched, err := filepath.Match(opts.Pattern, filepath.Base(recPath))
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", opts.Pattern, err)
			}
			if !matched {
				continue
			}
		}

		if opts.DryRun {
			report.skip(recPath)
			continue
		}

		target, err := importLocation(dir, recPath, opts)
		if err != nil {
			report.fail(recPath, err)
			continue
		}

		linkPath, err := Recreate(recPath, RecreateOptions{
			TargetLocation: target,
			Strategy:       opts.Strategy,
			UseLiveTarget:  opts.UseLiveTarget,
			UpdateRecord:   opts.UpdateRecord,
			BatchMode:      true,
		})
		if err != nil {
			log.Warn("recreation failed", "record", recPath, "error", err)
			report.fail(recPath, err)
			continue
		}

		if opts.RemoveRecords {
			if err := os.Remove(recPath); err != nil {
				log.Warn("record removal failed", "record", recPath, "error", err)
			}
		}
		report.success(linkPath)
	}

	log.Info("import finished", "dir", dir,
		"succeeded", len(report.Succeeded), "failed", len(report.Failed), "skipped", len(report.Skipped))
	return report, nil
}

// importLocation resolves where a record's link should be recreated.
// Without a target location the recorded original path is used.
func importLocation(root, recPath string, opts ImportOptions) (string, error) {
	if opts.TargetLocation == "" {
		return "", nil
	}
	if opts.Flatten {
		return opts.TargetLocation, nil
	}
	rel, err := filepath.Rel(root, filepath.Dir(recPath))
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", recPath, err)
	}
	return filepath.Join(opts.TargetLocation, rel), nil
}

// ConvertOptions controls a batch serialization of live links.
type ConvertOptions struct {
	Recursive bool
	// KeepOriginals leaves the source symlinks in place after
	// serialization. When false they are removed.
	KeepOriginals  bool
	MakeExecutable bool
	DryRun         bool

	Serialize SerializeOptions
}

// Convert scans dir for symlinks and serializes each into a sibling
// record file.
func Convert(dir string, opts ConvertOptions) (*Report, error) {
	log := logging.Get("export")
	report := newReport()

	links, err := link.Scan(dir, opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, linkPath := range links {
		if opts.DryRun {
			report.skip(linkPath)
			continue
		}

		sOpts := opts.Serialize
		sOpts.MakeExecutable = opts.MakeExecutable
		sOpts.RequireSymlink = true
		sOpts.Output = ""

		recPath, err := Serialize(linkPath, sOpts)
		if err != nil {
			log.Warn("serialization failed", "link", linkPath, "error", err)
			report.fail(linkPath, err)
			continue
		}

		if !opts.KeepOriginals {
			if err := os.Remove(linkPath); err != nil {
				log.Warn("original removal failed", "link", linkPath, "error", err)
			}
		}
		report.success(recPath)
	}

	log.Info("convert finished", "dir", dir,
		"succeeded", len(report.Succeeded), "failed", len(report.Failed), "skipped", len(report.Skipped))
	return report, nil
}

// MirrorOptions controls mirroring a tree of links into records.
type MirrorOptions struct {
	Recursive      bool
	MakeExecutable bool

	Serialize SerializeOptions
}

// Mirror serializes every symlink under srcDir into a record under
// destDir, preserving the relative layout. Source links are never
// modified.
func Mirror(srcDir, destDir string, opts MirrorOptions) (*Report, error) {
	log := logging.Get("export")
	report := newReport()

	links, err := link.Scan(srcDir, opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", srcDir, err)
	}

	for _, linkPath := range links {
		rel, err := filepath.Rel(srcDir, linkPath)
		if err != nil {
			report.fail(linkPath, err)
			continue
		}

		sOpts := opts.Serialize
		sOpts.MakeExecutable = opts.MakeExecutable
		sOpts.RequireSymlink = true
		sOpts.Output = filepath.Join(destDir, rel+record.Extension)

		recPath, err := Serialize(linkPath, sOpts)
		if err != nil {
			log.Warn("serialization failed", "link", linkPath, "error", err)
			report.fail(linkPath, err)
			continue
		}
		report.success(recPath)
	}

	log.Info("mirror finished", "src", srcDir, "dest", destDir,
		"succeeded", len(report.Succeeded), "failed", len(report.Failed))
	return report, nil
}

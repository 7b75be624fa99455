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

// RecreateOptions controls how a record is turned back into a link.
type RecreateOptions struct {
	// TargetLocation places the link in a different directory. The
	// original basename is kept.
	TargetLocation string
	// Strategy selects which timestamps the new link receives.
	Strategy times.Strategy
	// UseLiveTarget prefers a live probe of the target over the
	// recorded target timestamps.
	UseLiveTarget bool
	// UpdateRecord writes the recreation back into the record file.
	UpdateRecord bool
	// BatchMode skips timestamp verification for throughput.
	BatchMode bool
}

// DefaultRecreateOptions returns the stand-alone recreation defaults.
func DefaultRecreateOptions() RecreateOptions {
	return RecreateOptions{Strategy: times.StrategyPreserveAll}
}

// Recreate rebuilds the link described by the record at recordPath and
// returns the path of the created link. Creation failure is fatal;
// timestamp and attribute restoration are not.
func Recreate(recordPath string, opts RecreateOptions) (string, error) {
	log := logging.Get("recreate")

	rec, err := record.Load(recordPath)
	if err != nil {
		return "", err
	}

	linkPath := rec.Link.OriginalPath
	if opts.TargetLocation != "" {
		base := filepath.Base(linkPath)
		if base == "." || base == string(filepath.Separator) {
			base = filepath.Base(rec.Link.TargetPath)
		}
		linkPath = filepath.Join(opts.TargetLocation, base)
	}
	if linkPath == "" {
		return "", fmt.Errorf("record %s has no original path", recordPath)
	}

	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		return "", fmt.Errorf("create parent directory: %w", err)
	}

	// A relative target is stored joined to the link's directory; the
	// recreated link gets the relative form back, computed against its
	// own directory so relocated imports still resolve.
	target := rec.Link.TargetPath
	if rec.Link.RelativePath {
		if dir, err := filepath.Abs(filepath.Dir(linkPath)); err == nil {
			if rel, err := filepath.Rel(dir, rec.Link.TargetPath); err == nil {
				target = rel
			}
		}
	}

	isDir := rec.Target.Kind == record.TargetDirectory
	if err := link.Create(target, linkPath, isDir); err != nil {
		return "", err
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = times.StrategyPreserveAll
	}

	src := times.Sources{
		Link:        rec.Link.Timestamps.Triple(),
		Target:      rec.Target.Timestamps.Triple(),
		TargetPaths: rec.TargetCandidates(),
	}
	res, ok := times.Resolve(src, strategy, opts.UseLiveTarget, nil)
	if ok {
		applyOpts := times.DefaultApplyOptions()
		applyOpts.Verify = !opts.BatchMode
		if err := times.Apply(linkPath, res.Triple, applyOpts); err != nil {
			log.Warn("timestamp restore failed", "link", linkPath, "source", res.Source, "error", err)
		} else {
			log.Debug("timestamps restored", "link", linkPath, "source", res.Source)
		}
	}

	if err := link.ApplyAttrs(linkPath, attrsFromRecord(rec.Link.Attributes)); err != nil {
		log.Warn("attribute restore failed", "link", linkPath, "error", err)
	}

	if opts.UpdateRecord {
		if ok && res.Source == "live target" {
			rec.Target.Timestamps = record.FromTriple(res.Triple)
		}
		rec.Touch("recreated")
		if err := rec.Save(recordPath); err != nil {
			log.Warn("record update failed", "record", recordPath, "error", err)
		}
	}

	log.Info("link recreated", "link", linkPath, "target", rec.Link.TargetPath)
	return linkPath, nil
}

package link

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/logging"
)

// BackupSuffix is appended to a link's path to name its backup link.
const BackupSuffix = ".backup"

// RebaseOptions controls Rebase.
type RebaseOptions struct {
	// Recursive walks the whole tree instead of direct children.
	Recursive bool
	// MakeRelative converts absolute targets to paths relative to the
	// link's directory.
	MakeRelative bool
	// MakeAbsolute resolves relative targets against the link's
	// directory.
	MakeAbsolute bool
	// BaseRule rewrites the target's leading directory. "old:new"
	// replaces a literal prefix; a bare "new" discards the old
	// directory and relocates the target's basename under new.
	BaseRule string
	// OnlyBroken restricts the rewrite to links whose target does not
	// currently resolve.
	OnlyBroken bool
	// DryRun reports what would change without touching anything.
	DryRun bool
}

// RebaseChange records one rewritten link.
type RebaseChange struct {
	Path      string `json:"path"`
	OldTarget string `json:"old_target"`
	NewTarget string `json:"new_target"`
	Reason    string `json:"reason"`
	Backup    string `json:"backup"`
}

// RebaseError records a link the rewrite failed on.
type RebaseError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// RebaseReport partitions the scanned links by outcome.
type RebaseReport struct {
	Changed   []RebaseChange `json:"changed"`
	Unchanged []string       `json:"unchanged"`
	Errors    []RebaseError  `json:"errors"`
}

// Rebase rewrites link targets under dir according to opts. Before any
// link is touched, a sibling backup link pointing at the old target is
// created; only then is the primary link recreated. Per-link failures
// are accumulated, never fatal to the batch.
func Rebase(dir string, opts RebaseOptions) (*RebaseReport, error) {
	if opts.MakeRelative && opts.MakeAbsolute {
		return nil, fmt.Errorf("rebase: relative and absolute conversion are mutually exclusive")
	}
	logger := logging.Get("rebase")

	links, err := Scan(dir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	report := &RebaseReport{}
	for _, l := range links {
		// Backups from this or earlier runs are recovery artifacts,
		// never rewrite targets.
		if strings.HasSuffix(l, BackupSuffix) {
			continue
		}
		oldTarget, err := os.Readlink(l)
		if err != nil {
			report.Errors = append(report.Errors, RebaseError{Path: l, Err: err.Error()})
			continue
		}

		if opts.OnlyBroken && targetResolves(l, oldTarget) {
			report.Unchanged = append(report.Unchanged, l)
			continue
		}

		newTarget, reason := rewriteTarget(l, oldTarget, opts)
		if newTarget == oldTarget {
			report.Unchanged = append(report.Unchanged, l)
			continue
		}

		backup := l + BackupSuffix
		if !opts.DryRun {
			if err := retargetWithBackup(l, oldTarget, newTarget, backup); err != nil {
				logger.Warn("rebase failed", "link", l, "error", err)
				report.Errors = append(report.Errors, RebaseError{Path: l, Err: err.Error()})
				continue
			}
		}
		logger.Info("rebased link", "link", l, "old", oldTarget, "new", newTarget, "reason", reason)
		report.Changed = append(report.Changed, RebaseChange{
			Path:      l,
			OldTarget: oldTarget,
			NewTarget: newTarget,
			Reason:    reason,
			Backup:    backup,
		})
	}
	return report, nil
}

// rewriteTarget computes the new target for one link. The base rule is
// applied before relative/absolute conversion so both can combine.
func rewriteTarget(linkPath, target string, opts RebaseOptions) (string, string) {
	var reasons []string
	linkDir := filepath.Dir(linkPath)

	if opts.BaseRule != "" {
		if old, newPrefix, found := strings.Cut(opts.BaseRule, ":"); found {
			if strings.HasPrefix(target, old) {
				target = newPrefix + target[len(old):]
				reasons = append(reasons, "prefix rewritten")
			}
		} else {
			// Bare rule: keep only the basename, relocated under the
			// new prefix.
			target = filepath.Join(opts.BaseRule, filepath.Base(target))
			reasons = append(reasons, "relocated under new base")
		}
	}

	if opts.MakeRelative && filepath.IsAbs(target) {
		if rel, err := filepath.Rel(linkDir, target); err == nil {
			target = rel
			reasons = append(reasons, "made relative")
		}
	}
	if opts.MakeAbsolute && !filepath.IsAbs(target) {
		target = filepath.Clean(filepath.Join(linkDir, target))
		reasons = append(reasons, "made absolute")
	}

	return target, strings.Join(reasons, ", ")
}

// retargetWithBackup performs the ordered rewrite: backup link first,
// then the primary. A stale backup from an earlier run is overwritten.
func retargetWithBackup(linkPath, oldTarget, newTarget, backup string) error {
	if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear stale backup: %w", err)
	}
	if err := createSymlink(oldTarget, backup, false); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := os.Remove(linkPath); err != nil {
		return fmt.Errorf("remove old link: %w", err)
	}
	if err := createSymlink(newTarget, linkPath, false); err != nil {
		return fmt.Errorf("recreate link: %w", err)
	}
	return nil
}

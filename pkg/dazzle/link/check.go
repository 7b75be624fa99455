package link

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/logging"
)

// DefaultSearchDepth is how many ancestor levels the repair search
// climbs before giving up.
const DefaultSearchDepth = 5

// CheckOptions controls Check.
type CheckOptions struct {
	// Recursive walks the whole tree instead of direct children.
	Recursive bool
	// FixRelative rewrites broken relative links to a same-named entry
	// found near the link.
	FixRelative bool
	// DryRun reports what would be fixed without touching anything.
	DryRun bool
	// SearchDepth overrides DefaultSearchDepth when positive.
	SearchDepth int
}

// FixedLink records a repaired link and both its targets.
type FixedLink struct {
	Path      string `json:"path"`
	OldTarget string `json:"old_target"`
	NewTarget string `json:"new_target"`
}

// CheckReport partitions the scanned links. A nonempty Broken set is
// what exit-code-aware callers treat as failure.
type CheckReport struct {
	OK     []string    `json:"ok"`
	Broken []string    `json:"broken"`
	Fixed  []FixedLink `json:"fixed"`
}

// Check classifies every link under dir as ok or broken, optionally
// repairing broken relative links by searching nearby directories for a
// same-named entry.
func Check(dir string, opts CheckOptions) (*CheckReport, error) {
	logger := logging.Get("check")

	links, err := Scan(dir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	depth := opts.SearchDepth
	if depth <= 0 {
		depth = DefaultSearchDepth
	}

	report := &CheckReport{}
	for _, l := range links {
		target, err := os.Readlink(l)
		if err != nil {
			// Vanished between scan and read.
			report.Broken = append(report.Broken, l)
			continue
		}

		if targetResolves(l, target) {
			report.OK = append(report.OK, l)
			continue
		}

		if !opts.FixRelative || filepath.IsAbs(target) {
			report.Broken = append(report.Broken, l)
			continue
		}

		match, ok := findReplacement(filepath.Dir(l), filepath.Base(target), depth)
		if !ok {
			logger.Debug("no replacement found", "link", l, "target", target)
			report.Broken = append(report.Broken, l)
			continue
		}

		newTarget, err := filepath.Rel(filepath.Dir(l), match)
		if err != nil {
			report.Broken = append(report.Broken, l)
			continue
		}

		if !opts.DryRun {
			if err := relink(l, newTarget); err != nil {
				logger.Warn("repair failed", "link", l, "error", err)
				report.Broken = append(report.Broken, l)
				continue
			}
		}
		logger.Info("repaired link", "link", l, "old", target, "new", newTarget)
		report.Fixed = append(report.Fixed, FixedLink{Path: l, OldTarget: target, NewTarget: newTarget})
	}
	return report, nil
}

// targetResolves tests whether the link's literal target currently
// exists. Relative targets are anchored at the link's directory.
func targetResolves(linkPath, target string) bool {
	resolved := target
	if !filepath.IsAbs(target) {
		resolved = filepath.Join(filepath.Dir(linkPath), target)
	}
	_, err := os.Stat(resolved)
	return err == nil
}

// findReplacement looks for an entry named base, walking the subtree of
// each ancestor of startDir in turn, nearest first. fastwalk visits
// concurrently, so candidates are collected and sorted before picking
// the lexicographically first, keeping the result deterministic. The
// match is by name only; nothing verifies it is the same file that went
// missing.
func findReplacement(startDir, base string, depth int) (string, bool) {
	conf := fastwalk.Config{Follow: false}

	dir := startDir
	for level := 0; level <= depth; level++ {
		var mu sync.Mutex
		var candidates []string
		err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.Name() == base && path != dir {
				mu.Lock()
				candidates = append(candidates, path)
				mu.Unlock()
			}
			return nil
		})
		if err == nil && len(candidates) > 0 {
			sort.Strings(candidates)
			return candidates[0], true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// relink retargets a link: remove then recreate.
func relink(linkPath, newTarget string) error {
	if err := os.Remove(linkPath); err != nil {
		return err
	}
	return createSymlink(newTarget, linkPath, false)
}

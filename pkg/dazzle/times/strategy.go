package times

import (
	"fmt"
)

// Strategy selects which timestamps a recreated link receives.
type Strategy string

const (
	// StrategyCurrent leaves the link with the timestamps the filesystem
	// assigned at creation.
	StrategyCurrent Strategy = "current"
	// StrategySymlink restores the recorded timestamps of the link itself.
	StrategySymlink Strategy = "symlink"
	// StrategyTarget restores the target's timestamps, preferring a live
	// reading over the recorded one.
	StrategyTarget Strategy = "target"
	// StrategyPreserveAll behaves like StrategyTarget but falls back to
	// the link's own recorded timestamps before giving up.
	StrategyPreserveAll Strategy = "preserve-all"
)

// ParseStrategy validates a user-supplied strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyCurrent, StrategySymlink, StrategyTarget, StrategyPreserveAll:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown timestamp strategy %q", s)
}

// Sources bundles everything Resolve may draw from: the recorded link and
// target triples, and the ordered candidate paths for a live probe of the
// current target.
type Sources struct {
	Link        Triple
	Target      Triple
	TargetPaths []string
}

// Resolution is a chosen triple plus the name of the source it came from,
// for logging.
type Resolution struct {
	Triple Triple
	Source string
}

// Probe attempts a live timestamp reading of one candidate target path.
type Probe func(path string) (Triple, bool)

// Resolve picks the timestamps to apply for the given strategy. The second
// return is false when the strategy yields nothing to apply, which is the
// normal outcome for StrategyCurrent and for strategies whose sources are
// all unusable. Resolution never fails an operation.
func Resolve(src Sources, strategy Strategy, useLive bool, probe Probe) (Resolution, bool) {
	if probe == nil {
		probe = ProbeLive
	}
	switch strategy {
	case StrategyCurrent:
		return Resolution{}, false

	case StrategySymlink:
		if src.Link.Usable() {
			return Resolution{Triple: src.Link, Source: "recorded link"}, true
		}
		return Resolution{}, false

	case StrategyTarget, StrategyPreserveAll:
		live, haveLive := probeTarget(src.TargetPaths, probe)
		if useLive && haveLive {
			return Resolution{Triple: live, Source: "live target"}, true
		}
		if src.Target.Usable() {
			return Resolution{Triple: src.Target, Source: "recorded target"}, true
		}
		if haveLive {
			return Resolution{Triple: live, Source: "live target"}, true
		}
		if strategy == StrategyPreserveAll && src.Link.Usable() {
			return Resolution{Triple: src.Link, Source: "recorded link"}, true
		}
		return Resolution{}, false
	}
	return Resolution{}, false
}

// probeTarget tries each candidate representation in order and keeps the
// first usable reading.
func probeTarget(paths []string, probe Probe) (Triple, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if t, ok := probe(p); ok && t.Usable() {
			return t, true
		}
	}
	return Triple{}, false
}

package times

import (
	"errors"
	"fmt"
	"time"
)

// ErrVerifyUnsupported is returned by a platform reader that cannot read
// link timestamps back. Verification is then skipped and the initial write
// stands.
var ErrVerifyUnsupported = errors.New("timestamp verification unsupported on this platform")

// ApplyOptions controls the write-verify-retry cycle.
type ApplyOptions struct {
	// Verify re-reads the timestamps after writing and reapplies on
	// divergence beyond Tolerance.
	Verify bool
	// MaxAttempts bounds the total write attempts, the initial write
	// included.
	MaxAttempts int
	// RetryDelay is the pause between verification attempts.
	RetryDelay time.Duration
}

// DefaultApplyOptions mirrors the behavior most callers want: one
// verification pass with a short settle delay.
func DefaultApplyOptions() ApplyOptions {
	return ApplyOptions{
		Verify:      true,
		MaxAttempts: 2,
		RetryDelay:  50 * time.Millisecond,
	}
}

type setTimesFunc func(path string, ts Triple) error

type readTimesFunc func(path string) (Triple, error)

// Apply writes the triple onto the link at path without following it, then
// verifies and retries per opts. Running out of retries is not an error:
// the timestamps were written, they just could not be confirmed.
func Apply(path string, ts Triple, opts ApplyOptions) error {
	return applyWith(path, ts, opts, setLinkTimes, readLinkTimes)
}

func applyWith(path string, ts Triple, opts ApplyOptions, set setTimesFunc, read readTimesFunc) error {
	if !ts.Usable() {
		return fmt.Errorf("apply timestamps %s: no modification time", path)
	}
	if ts.Accessed == nil {
		ts.Accessed = ts.Modified
	}
	if err := set(path, ts); err != nil {
		return fmt.Errorf("apply timestamps %s: %w", path, err)
	}
	if !opts.Verify {
		return nil
	}
	for attempt := 1; attempt < opts.MaxAttempts; attempt++ {
		got, err := read(path)
		if err != nil {
			if errors.Is(err, ErrVerifyUnsupported) {
				return nil
			}
			// A transient read failure is treated like a mismatch:
			// write again and move on.
		} else if withinTolerance(ts, got) {
			return nil
		}
		if err := set(path, ts); err != nil {
			return fmt.Errorf("reapply timestamps %s: %w", path, err)
		}
		if attempt < opts.MaxAttempts-1 {
			time.Sleep(opts.RetryDelay)
		}
	}
	return nil
}

// Package times provides timestamp capture, strategy resolution, and
// verified application for dazzlelink records. Timestamps travel as
// nullable epoch seconds to match the on-disk record format.
package times

import (
	"math"
	"time"
)

// Tolerance is the maximum divergence accepted when verifying applied
// timestamps. Filesystem granularity and clock skew make exact matches
// unreliable.
const Tolerance = 5 * time.Second

// Triple holds the three filesystem timestamps for a path. A nil field
// means the value is unknown or not applicable on the capture platform.
type Triple struct {
	Created  *float64
	Modified *float64
	Accessed *float64
}

// Usable reports whether the triple can be applied. A triple without a
// modification time carries too little information to be worth writing.
func (t Triple) Usable() bool {
	return t.Modified != nil
}

// Stamp returns a pointer to v for building Triple literals.
func Stamp(v float64) *float64 {
	return &v
}

// StampTime converts a time.Time to epoch seconds, or nil for the zero time.
func StampTime(t time.Time) *float64 {
	if t.IsZero() {
		return nil
	}
	v := float64(t.UnixNano()) / float64(time.Second)
	return &v
}

// AsTime converts epoch seconds back to a time.Time. Nil yields the zero time.
func AsTime(v *float64) time.Time {
	if v == nil {
		return time.Time{}
	}
	sec, frac := math.Modf(*v)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// withinTolerance compares the fields that are stable enough to verify.
// Access time is excluded: reading a link during verification perturbs it.
func withinTolerance(want, got Triple) bool {
	if !fieldClose(want.Created, got.Created) {
		return false
	}
	return fieldClose(want.Modified, got.Modified)
}

// fieldClose reports whether two optional stamps agree within Tolerance.
// A field missing on either side is not comparable and passes.
func fieldClose(want, got *float64) bool {
	if want == nil || got == nil {
		return true
	}
	diff := math.Abs(*want - *got)
	return diff <= Tolerance.Seconds()
}

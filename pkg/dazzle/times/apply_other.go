//go:build !unix && !windows

package times

import (
	"os"
)

// Best effort on platforms without a way to touch the link itself: this
// follows the link, which is still better than leaving nothing.
func setLinkTimes(path string, ts Triple) error {
	return os.Chtimes(path, AsTime(ts.Accessed), AsTime(ts.Modified))
}

func readLinkTimes(path string) (Triple, error) {
	return Triple{}, ErrVerifyUnsupported
}

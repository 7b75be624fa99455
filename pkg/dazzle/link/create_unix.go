//go:build !windows

package link

import (
	"os"
)

// POSIX symlink creation needs no privilege, so there is no fallback
// chain here.
func createSymlink(target, linkPath string, targetIsDir bool) error {
	if err := os.Symlink(target, linkPath); err != nil {
		return &CreationError{Target: target, Link: linkPath, Err: err}
	}
	return nil
}

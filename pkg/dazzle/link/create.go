// Package link operates on live symbolic links: cross-platform creation
// with a privileged fallback chain, directory scanning, broken-link
// checking with best-effort repair, and target rebasing.
package link

import (
	"fmt"
	"os"
)

// CreationError reports that every creation stage was exhausted.
type CreationError struct {
	Target string
	Link   string
	Err    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create link %s -> %s: %v", e.Link, e.Target, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Create makes a symlink at linkPath pointing at targetPath, clearing
// anything already occupying linkPath first. targetIsDir selects the
// directory link flavor on platforms that distinguish it.
func Create(targetPath, linkPath string, targetIsDir bool) error {
	if err := clearPath(linkPath); err != nil {
		return &CreationError{Target: targetPath, Link: linkPath, Err: err}
	}
	return createSymlink(targetPath, linkPath, targetIsDir)
}

// clearPath removes whatever sits at path. A directory is removed
// recursively only when it is a real directory, never through a link.
func clearPath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return os.Remove(path)
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// IsLink reports whether path is a symbolic link.
func IsLink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// ReadTarget returns the literal target stored in the link, unresolved.
func ReadTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("read link target %s: %w", path, err)
	}
	return target, nil
}

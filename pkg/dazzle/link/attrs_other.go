//go:build !windows

package link

// POSIX has no hidden/system/readonly attribute bits on the link itself;
// capture reports all false and apply is a no-op.
func captureAttrs(path string) Attrs {
	return Attrs{}
}

func applyAttrs(path string, a Attrs) error {
	return nil
}

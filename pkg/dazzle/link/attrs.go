package link

// Attrs are the three portable Windows file attribute flags.
type Attrs struct {
	Hidden   bool
	System   bool
	Readonly bool
}

// CaptureAttrs reads the attribute flags of path without following it.
// On POSIX hosts all flags are false.
func CaptureAttrs(path string) Attrs {
	return captureAttrs(path)
}

// ApplyAttrs best-effort restores attribute flags onto path. Failure is
// reported but callers treat it as non-fatal, like timestamps.
func ApplyAttrs(path string, a Attrs) error {
	return applyAttrs(path, a)
}

//go:build !unix

package logging

// Windows opens the log file without sharing conflicts and appends are
// already serialized by the writer mutex, so no advisory lock is taken.
func (w *RotatingWriter) lock() error {
	return nil
}

func (w *RotatingWriter) unlock() {
}

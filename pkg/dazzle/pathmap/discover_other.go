//go:build !windows

package pathmap

// Mapped network drives are a Windows concept; elsewhere the table is
// always empty and paths only have their canonical form.
func discoverMappings() map[string]string {
	return map[string]string{}
}

// Package pathmap translates paths between their representations: the
// canonical local form, mapped network drives, and UNC share forms.
// A Mapper is built once per run and passed explicitly to whatever needs
// translation; there is no process-wide cache to refresh behind anyone's
// back.
package pathmap

import (
	"path/filepath"
	"sort"
	"strings"
)

// Mapper holds the drive-to-share table discovered at construction time.
// Refresh is an explicit call, never a side effect of lookup.
type Mapper struct {
	// drives maps an upper-case drive spec ("Z:") to its UNC share root.
	drives map[string]string
}

// New builds a Mapper from the host's current network mappings. On hosts
// without mapped drives the table is simply empty and Representations
// degrades to the canonical form alone.
func New() *Mapper {
	m := &Mapper{drives: map[string]string{}}
	m.Refresh()
	return m
}

// NewStatic builds a Mapper from a fixed drive table, for callers that
// already know the mappings and for tests.
func NewStatic(drives map[string]string) *Mapper {
	m := &Mapper{drives: map[string]string{}}
	for drive, share := range drives {
		m.drives[normalizeDrive(drive)] = strings.TrimRight(share, `\/`)
	}
	return m
}

// Refresh re-reads the host's mapping table, replacing the previous one.
func (m *Mapper) Refresh() {
	m.drives = discoverMappings()
}

// Representations returns every known spelling of path keyed by kind.
// The canonical entry is always present.
func (m *Mapper) Representations(path string) map[string]string {
	reprs := map[string]string{"canonical": path}
	if unc, ok := m.ToUNC(path); ok {
		reprs["unc"] = unc
	}
	if mapped, ok := m.ToMapped(path); ok {
		reprs["mapped"] = mapped
	}
	return reprs
}

// ToUNC rewrites a mapped-drive path into its UNC form.
func (m *Mapper) ToUNC(path string) (string, bool) {
	if len(path) < 2 || path[1] != ':' {
		return "", false
	}
	share, ok := m.drives[normalizeDrive(path[:2])]
	if !ok {
		return "", false
	}
	return share + toBackslash(path[2:]), true
}

// ToMapped rewrites a UNC path onto a mapped drive when one covers it.
// With several drives mapped to the same share the lowest drive letter
// wins, so the result is stable across runs.
func (m *Mapper) ToMapped(path string) (string, bool) {
	p := toBackslash(path)
	if !strings.HasPrefix(p, `\\`) {
		return "", false
	}
	for _, drive := range m.sortedDrives() {
		share := m.drives[drive]
		if strings.EqualFold(p, share) {
			return drive + `\`, true
		}
		if len(p) > len(share) && strings.EqualFold(p[:len(share)], share) && p[len(share)] == '\\' {
			return drive + p[len(share):], true
		}
	}
	return "", false
}

func (m *Mapper) sortedDrives() []string {
	drives := make([]string, 0, len(m.drives))
	for d := range m.drives {
		drives = append(drives, d)
	}
	sort.Strings(drives)
	return drives
}

func normalizeDrive(d string) string {
	d = strings.ToUpper(strings.TrimSpace(d))
	if len(d) == 1 {
		d += ":"
	}
	return d
}

func toBackslash(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

// Canonical returns the cleaned absolute form of path without resolving
// any symlink component, so describing a link never dereferences it.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

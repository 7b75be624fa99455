package pathmap

import (
	"strings"
)

// parseNetUse extracts drive-to-share pairs from `net use` output. The
// table headers are locale-sensitive but the drive and UNC columns are
// recognizable by shape, so the parser keys on those.
func parseNetUse(out string) map[string]string {
	drives := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		var drive, share string
		for _, f := range strings.Fields(line) {
			switch {
			case drive == "" && len(f) == 2 && f[1] == ':' && isDriveLetter(f[0]):
				drive = strings.ToUpper(f)
			case share == "" && strings.HasPrefix(f, `\\`):
				share = strings.TrimRight(f, `\`)
			}
		}
		if drive != "" && share != "" {
			drives[drive] = share
		}
	}
	return drives
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

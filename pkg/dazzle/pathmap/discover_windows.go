//go:build windows

package pathmap

import (
	"os/exec"
)

// discoverMappings shells out to `net use` and parses the status table.
func discoverMappings() map[string]string {
	out, err := exec.Command("net", "use").Output()
	if err != nil {
		return map[string]string{}
	}
	return parseNetUse(string(out))
}

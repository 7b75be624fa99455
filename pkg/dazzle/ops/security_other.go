//go:build !unix

package ops

import (
	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
)

// captureSecurity has no POSIX ownership to record on this platform.
func captureSecurity(path string) record.Security {
	return record.Security{}
}

//go:build !linux && !darwin && !windows

package times

import (
	"os"
	"time"
)

func birthtime(info os.FileInfo) time.Time {
	return time.Time{}
}

func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}

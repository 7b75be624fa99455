//go:build windows

package times

import (
	"os"
	"syscall"
	"time"
)

func birthtime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}
	}
	return time.Unix(0, st.CreationTime.Nanoseconds())
}

func accessTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, st.LastAccessTime.Nanoseconds())
}

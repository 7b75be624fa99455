//go:build windows

package times

import (
	"time"

	"golang.org/x/sys/windows"
)

func filetimeToTime(ft windows.Filetime) time.Time {
	return time.Unix(0, ft.Nanoseconds())
}

// openLink opens the reparse point itself rather than what it points at.
func openLink(path string, access uint32) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	return windows.CreateFile(p, access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS|windows.FILE_FLAG_OPEN_REPARSE_POINT, 0)
}

func setLinkTimes(path string, ts Triple) error {
	h, err := openLink(path, windows.FILE_WRITE_ATTRIBUTES)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	var created, accessed, modified *windows.Filetime
	if ts.Created != nil {
		ft := windows.NsecToFiletime(AsTime(ts.Created).UnixNano())
		created = &ft
	}
	if ts.Accessed != nil {
		ft := windows.NsecToFiletime(AsTime(ts.Accessed).UnixNano())
		accessed = &ft
	}
	if ts.Modified != nil {
		ft := windows.NsecToFiletime(AsTime(ts.Modified).UnixNano())
		modified = &ft
	}
	return windows.SetFileTime(h, created, accessed, modified)
}

func readLinkTimes(path string) (Triple, error) {
	h, err := openLink(path, windows.GENERIC_READ)
	if err != nil {
		return Triple{}, err
	}
	defer windows.CloseHandle(h)

	var created, accessed, modified windows.Filetime
	if err := windows.GetFileTime(h, &created, &accessed, &modified); err != nil {
		return Triple{}, err
	}
	return Triple{
		Created:  StampTime(filetimeToTime(created)),
		Modified: StampTime(filetimeToTime(modified)),
		Accessed: StampTime(filetimeToTime(accessed)),
	}, nil
}

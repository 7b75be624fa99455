//go:build windows

package link

import (
	"golang.org/x/sys/windows"
)

func captureAttrs(path string) Attrs {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Attrs{}
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return Attrs{}
	}
	return Attrs{
		Hidden:   attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0,
		System:   attrs&windows.FILE_ATTRIBUTE_SYSTEM != 0,
		Readonly: attrs&windows.FILE_ATTRIBUTE_READONLY != 0,
	}
}

func applyAttrs(path string, a Attrs) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}

	set := func(flag uint32, on bool) {
		if on {
			attrs |= flag
		} else {
			attrs &^= flag
		}
	}
	set(windows.FILE_ATTRIBUTE_HIDDEN, a.Hidden)
	set(windows.FILE_ATTRIBUTE_SYSTEM, a.System)
	set(windows.FILE_ATTRIBUTE_READONLY, a.Readonly)

	if attrs == 0 {
		attrs = windows.FILE_ATTRIBUTE_NORMAL
	}
	return windows.SetFileAttributes(p, attrs)
}

package times

import (
	"os"
)

// CaptureLink reads the timestamps of the link itself without following it.
func CaptureLink(path string) (Triple, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Triple{}, err
	}
	return fromInfo(info), nil
}

// CaptureTarget reads the timestamps of whatever path resolves to. The
// second return is false when the path does not resolve, which is normal
// for a broken link and not an error.
func CaptureTarget(path string) (Triple, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return Triple{}, false
	}
	return fromInfo(info), true
}

// ProbeLive is the production probe passed to Resolve. It tries a single
// candidate target representation and reports whether it yielded a usable
// triple.
func ProbeLive(path string) (Triple, bool) {
	t, ok := CaptureTarget(path)
	if !ok || !t.Usable() {
		return Triple{}, false
	}
	return t, true
}

func fromInfo(info os.FileInfo) Triple {
	return Triple{
		Created:  StampTime(birthtime(info)),
		Modified: StampTime(info.ModTime()),
		Accessed: StampTime(accessTime(info)),
	}
}

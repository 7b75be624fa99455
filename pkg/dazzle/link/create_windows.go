//go:build windows

package link

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/windows"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/logging"
)

const (
	elevationPollInterval = time.Second
	elevationPollAttempts = 5
)

// createSymlink walks the fallback chain: plain CreateSymbolicLink via
// os.Symlink, the native API with the unprivileged-create flag, mklink,
// and finally mklink through a UAC elevation prompt.
func createSymlink(target, linkPath string, targetIsDir bool) error {
	logger := logging.Get("create")

	err := os.Symlink(target, linkPath)
	if err == nil {
		return nil
	}
	if !isPrivilegeError(err) {
		return &CreationError{Target: target, Link: linkPath, Err: err}
	}
	logger.Debug("direct creation needs privilege, trying native API", "link", linkPath)

	if apiErr := createViaAPI(target, linkPath, targetIsDir); apiErr == nil {
		return nil
	} else if !isPrivilegeError(apiErr) {
		return &CreationError{Target: target, Link: linkPath, Err: apiErr}
	}
	logger.Debug("native API refused, trying mklink", "link", linkPath)

	if cmdErr := createViaMklink(target, linkPath, targetIsDir, false); cmdErr == nil {
		return nil
	}
	logger.Debug("mklink refused, requesting elevation", "link", linkPath)

	if elevErr := createViaMklink(target, linkPath, targetIsDir, true); elevErr != nil {
		return &CreationError{Target: target, Link: linkPath, Err: elevErr}
	}
	return nil
}

// createViaAPI calls CreateSymbolicLink directly, asking for the
// unprivileged-create capability available since Windows 10 1703.
func createViaAPI(target, linkPath string, targetIsDir bool) error {
	linkPtr, err := windows.UTF16PtrFromString(linkPath)
	if err != nil {
		return err
	}
	targetPtr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	var flags uint32 = windows.SYMBOLIC_LINK_FLAG_ALLOW_UNPRIVILEGED_CREATE
	if targetIsDir {
		flags |= windows.SYMBOLIC_LINK_FLAG_DIRECTORY
	}
	return windows.CreateSymbolicLink(linkPtr, targetPtr, flags)
}

// createViaMklink shells out to cmd's mklink builtin, optionally through
// a UAC prompt. Elevated creation happens in a detached process, so
// success is confirmed by polling for the link to appear.
func createViaMklink(target, linkPath string, targetIsDir, elevate bool) error {
	args := []string{"/c", "mklink"}
	if targetIsDir {
		args = append(args, "/D")
	}
	args = append(args, linkPath, target)

	if !elevate {
		out, err := exec.Command("cmd", args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("mklink: %v: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	psArgs := make([]string, len(args))
	for i, a := range args {
		psArgs[i] = fmt.Sprintf("'%s'", strings.ReplaceAll(a, "'", "''"))
	}
	script := fmt.Sprintf("Start-Process -FilePath cmd -ArgumentList %s -Verb RunAs -WindowStyle Hidden",
		strings.Join(psArgs, ","))
	if err := exec.Command("powershell", "-NoProfile", "-Command", script).Run(); err != nil {
		return fmt.Errorf("elevation prompt: %w", err)
	}

	for i := 0; i < elevationPollAttempts; i++ {
		time.Sleep(elevationPollInterval)
		if _, err := os.Lstat(linkPath); err == nil {
			return nil
		}
	}
	return fmt.Errorf("elevated mklink: link did not appear within %s",
		elevationPollAttempts*elevationPollInterval)
}

// Symlink creation needs SeCreateSymbolicLink unless developer mode
// grants the unprivileged-create capability; the failure surfaces as
// ERROR_PRIVILEGE_NOT_HELD (1314).
func isPrivilegeError(err error) bool {
	if errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) || errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return true
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, windows.ERROR_PRIVILEGE_NOT_HELD) ||
			errors.Is(linkErr.Err, windows.ERROR_ACCESS_DENIED)
	}
	return false
}

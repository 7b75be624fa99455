//go:build unix

package ops

import (
	"os"
	"os/user"
	"strconv"
	"syscall"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
)

// captureSecurity records POSIX ownership and permission bits of the
// link itself. Name lookups fall back to numeric IDs.
func captureSecurity(path string) record.Security {
	var sec record.Security

	info, err := os.Lstat(path)
	if err != nil {
		return sec
	}

	perms := uint32(info.Mode().Perm())
	sec.Permissions = &perms
	sec.PermissionsOctal = strconv.FormatUint(uint64(perms), 8)

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return sec
	}

	uid := int(st.Uid)
	gid := int(st.Gid)
	sec.OwnerID = &uid
	sec.GroupID = &gid

	if u, err := user.LookupId(strconv.Itoa(uid)); err == nil {
		sec.Owner = &u.Username
	}
	if g, err := user.LookupGroupId(strconv.Itoa(gid)); err == nil {
		sec.Group = &g.Name
	}
	return sec
}

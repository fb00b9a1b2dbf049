// Package paths resolves the configured account/group/sysconfdir roots
// into concrete account and group directories. It is pure path
// arithmetic plus, for name lookups, a single symlink read — it never
// opens a credential record and never performs a privilege transition.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/lc-login/lc-login/pkg/lcerrors"
)

// Resolver holds the process-lifetime roots used to locate account and
// group directories. It is computed once, eagerly, at process start
// (see pkg/config) and treated as read-only afterwards — there is no
// package-level singleton and no lazy initialization.
type Resolver struct {
	UsersRoot  string
	GroupsRoot string
	SysConfDir string
}

// NewResolver builds a Resolver from already-resolved absolute roots.
func NewResolver(usersRoot, groupsRoot, sysConfDir string) *Resolver {
	return &Resolver{
		UsersRoot:  usersRoot,
		GroupsRoot: groupsRoot,
		SysConfDir: sysConfDir,
	}
}

// AuthTemplatePath returns the path to the site-wide authtemplate file.
func (r *Resolver) AuthTemplatePath() string {
	return filepath.Join(r.SysConfDir, "authtemplate")
}

// AccountHandle is the absolute path to an account directory. It is
// cheap to copy and carries no opinion about whether the directory
// actually exists — operations surface I/O errors lazily.
type AccountHandle struct {
	path string
}

// Path returns the absolute account directory path.
func (h AccountHandle) Path() string { return h.path }

// Join returns the absolute path to a named entry inside the account
// directory (e.g. h.Join("password")).
func (h AccountHandle) Join(entry string) string { return filepath.Join(h.path, entry) }

// GroupHandle is the absolute path to a group directory, mirroring
// AccountHandle for the group store.
type GroupHandle struct {
	path string
}

// Path returns the absolute group directory path.
func (h GroupHandle) Path() string { return h.path }

// Join returns the absolute path to a named entry inside the group directory.
func (h GroupHandle) Join(entry string) string { return filepath.Join(h.path, entry) }

// AccountByUID joins UsersRoot/<uid> directly; no symlink resolution.
func (r *Resolver) AccountByUID(uid uint32) AccountHandle {
	return AccountHandle{path: filepath.Join(r.UsersRoot, strconv.FormatUint(uint64(uid), 10))}
}

// AccountByName joins UsersRoot/<name> and reads it as a symlink (one
// hop). If the entry exists but is not a symlink, the joined path
// itself is used as the account directory — this supports sites where
// the numeric directory is the primary key and the name-indexed entry
// is absent.
func (r *Resolver) AccountByName(name string) (AccountHandle, error) {
	p := filepath.Join(r.UsersRoot, name)
	target, err := os.Readlink(p)
	if err != nil {
		if isNotSymlink(err) {
			return AccountHandle{path: p}, nil
		}
		return AccountHandle{}, lcerrors.FromPathError("paths.AccountByName", p, err)
	}
	return AccountHandle{path: resolveHop(p, target)}, nil
}

// AccountByUIDIn mirrors AccountByUID under a chroot prefix: the
// leading '/' of UsersRoot is stripped before joining, producing
// <chroot>/<rel-users-root>/<uid>. No privilege transition is performed.
func (r *Resolver) AccountByUIDIn(uid uint32, chroot string) AccountHandle {
	base := filepath.Join(chroot, strings.TrimPrefix(r.UsersRoot, string(filepath.Separator)))
	return AccountHandle{path: filepath.Join(base, strconv.FormatUint(uint64(uid), 10))}
}

// AccountByNameIn mirrors AccountByName under a chroot prefix. The
// symlink target is re-rooted under chroot if absolute (since it was
// written to be valid from the perspective of the process after it
// chroots), or resolved relative to the name-entry's directory otherwise.
func (r *Resolver) AccountByNameIn(name string, chroot string) (AccountHandle, error) {
	base := filepath.Join(chroot, strings.TrimPrefix(r.UsersRoot, string(filepath.Separator)))
	p := filepath.Join(base, name)
	target, err := os.Readlink(p)
	if err != nil {
		if isNotSymlink(err) {
			return AccountHandle{path: p}, nil
		}
		return AccountHandle{}, lcerrors.FromPathError("paths.AccountByNameIn", p, err)
	}
	if filepath.IsAbs(target) {
		return AccountHandle{path: filepath.Join(chroot, target)}, nil
	}
	return AccountHandle{path: filepath.Join(filepath.Dir(p), target)}, nil
}

// GroupByGID joins GroupsRoot/<gid> directly; no symlink resolution.
func (r *Resolver) GroupByGID(gid uint32) GroupHandle {
	return GroupHandle{path: filepath.Join(r.GroupsRoot, strconv.FormatUint(uint64(gid), 10))}
}

// GroupByName joins GroupsRoot/<name> and reads it as a symlink (one hop).
func (r *Resolver) GroupByName(name string) (GroupHandle, error) {
	p := filepath.Join(r.GroupsRoot, name)
	target, err := os.Readlink(p)
	if err != nil {
		if isNotSymlink(err) {
			return GroupHandle{path: p}, nil
		}
		return GroupHandle{}, lcerrors.FromPathError("paths.GroupByName", p, err)
	}
	return GroupHandle{path: resolveHop(p, target)}, nil
}

// GroupFromGID builds a GroupHandle directly from a gid
// already parsed out of an account's "group" symlink target.
func (r *Resolver) GroupFromGID(gid uint32) GroupHandle {
	return r.GroupByGID(gid)
}

// resolveHop joins a symlink's read target relative to the symlink's
// own directory, unless the target is already absolute.
func resolveHop(linkPath, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(linkPath), target)
}

// isNotSymlink reports whether err is the "exists but is not a
// symlink" case (EINVAL from readlink(2)) as opposed to NotFound or
// some other failure.
func isNotSymlink(err error) bool {
	return errors.Is(err, syscall.EINVAL)
}

// Package account implements AccountStore: the read/write operations
// over a single account directory's symlink graph (name, home, shell,
// root, primary group) and its supplementary-group membership file.
// Password record access lives in pkg/transaction and pkg/verify —
// this package only reports whether a password file is present.
package account

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lc-login/lc-login/pkg/lcerrors"
	"github.com/lc-login/lc-login/pkg/paths"
)

// Store binds account operations to a configured Resolver.
type Store struct {
	resolver *paths.Resolver
}

// NewStore builds a Store over the given Resolver.
func NewStore(resolver *paths.Resolver) *Store {
	return &Store{resolver: resolver}
}

// Handle is a bound account directory: a Store plus the AccountHandle
// the Resolver produced for it.
type Handle struct {
	store *Store
	h     paths.AccountHandle
}

// ByUID looks up an account by numeric uid.
func (s *Store) ByUID(uid uint32) Handle {
	return Handle{store: s, h: s.resolver.AccountByUID(uid)}
}

// ByName looks up an account by its name-indexed symlink.
func (s *Store) ByName(name string) (Handle, error) {
	h, err := s.resolver.AccountByName(name)
	if err != nil {
		return Handle{}, err
	}
	return Handle{store: s, h: h}, nil
}

// List enumerates every account directory directly under UsersRoot,
// skipping the name-indexed forward symlinks that live alongside them
// (an account directory is a real directory named by its decimal uid;
// a name entry is a symlink).
func (s *Store) List() ([]Handle, error) {
	entries, err := os.ReadDir(s.resolver.UsersRoot)
	if err != nil {
		return nil, lcerrors.FromPathError("account.List", s.resolver.UsersRoot, err)
	}
	var uids []uint32
	for _, e := range entries {
		uid, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.IsDir() {
			continue
		}
		uids = append(uids, uint32(uid))
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	handles := make([]Handle, len(uids))
	for i, uid := range uids {
		handles[i] = s.ByUID(uid)
	}
	return handles, nil
}

// ByUIDIn looks up an account by uid under a chroot prefix.
func (s *Store) ByUIDIn(uid uint32, chroot string) Handle {
	return Handle{store: s, h: s.resolver.AccountByUIDIn(uid, chroot)}
}

// ByNameIn looks up an account by name under a chroot prefix.
func (s *Store) ByNameIn(name string, chroot string) (Handle, error) {
	h, err := s.resolver.AccountByNameIn(name, chroot)
	if err != nil {
		return Handle{}, err
	}
	return Handle{store: s, h: h}, nil
}

// Path returns the account directory's absolute path.
func (h Handle) Path() string { return h.h.Path() }

// PasswordPath returns the path to this account's password file.
func (h Handle) PasswordPath() string { return h.h.Join("password") }

// Join returns the absolute path to a named entry inside the account
// directory, for callers (pkg/transaction) that need sidecar files
// beyond the ones this package exposes directly.
func (h Handle) Join(entry string) string { return h.h.Join(entry) }

// readLinkBasename reads entry as a symlink and returns the base name
// of its target, classifying a missing entry as NotFound.
func readLinkBasename(op, path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", lcerrors.FromPathError(op, path, err)
	}
	return filepath.Base(target), nil
}

// readLinkTarget reads entry as a symlink and returns its raw target,
// classifying a missing entry as NotFound.
func readLinkTarget(op, path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", lcerrors.FromPathError(op, path, err)
	}
	return target, nil
}

// replaceSymlink removes any existing entry at path and creates a new
// symlink to target in its place.
func replaceSymlink(target, path string) error {
	_ = os.Remove(path)
	return os.Symlink(target, path)
}

// Name returns the account's name, read from the account directory's
// "name" symlink (whose target's basename is the name-indexed entry
// under UsersRoot).
func (h Handle) Name() (string, error) {
	return readLinkBasename("account.Name", h.h.Join("name"))
}

// SetName points both the forward name->account symlink and the
// account's own "name" back-reference at the new name, removing the
// old forward entry if one is registered.
func (h Handle) SetName(name string) error {
	if old, err := h.Name(); err == nil {
		_ = os.Remove(filepath.Join(h.store.resolver.UsersRoot, old))
	}
	forward := filepath.Join(h.store.resolver.UsersRoot, name)
	if err := replaceSymlink(h.Path(), forward); err != nil {
		return lcerrors.FromPathError("account.SetName", forward, err)
	}
	back := h.h.Join("name")
	if err := replaceSymlink(forward, back); err != nil {
		return lcerrors.FromPathError("account.SetName", back, err)
	}
	return nil
}

// UID returns the account's numeric id, read from its "uid" symlink.
func (h Handle) UID() (uint32, error) {
	base, err := readLinkBasename("account.UID", h.h.Join("uid"))
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseUint(base, 10, 32)
	if perr != nil {
		return 0, lcerrors.InvalidDataf("account.UID", "non-numeric uid symlink target %q", base)
	}
	return uint32(v), nil
}

// Home returns the account's home directory target, or a NotFound
// error if the "home" entry is absent.
func (h Handle) Home() (string, error) {
	return readLinkTarget("account.Home", h.h.Join("home"))
}

// SetHome points the "home" symlink at dir.
func (h Handle) SetHome(dir string) error {
	if err := replaceSymlink(dir, h.h.Join("home")); err != nil {
		return lcerrors.FromPathError("account.SetHome", h.h.Join("home"), err)
	}
	return nil
}

// Shell returns the account's login shell target, or NotFound.
func (h Handle) Shell() (string, error) {
	return readLinkTarget("account.Shell", h.h.Join("shell"))
}

// SetShell points the "shell" symlink at shell.
func (h Handle) SetShell(shell string) error {
	if err := replaceSymlink(shell, h.h.Join("shell")); err != nil {
		return lcerrors.FromPathError("account.SetShell", h.h.Join("shell"), err)
	}
	return nil
}

// Root returns the account's su/chroot root target, or NotFound if the
// account has no configured root (su behaves as if "/").
func (h Handle) Root() (string, error) {
	return readLinkTarget("account.Root", h.h.Join("root"))
}

// SetRoot points the "root" symlink at dir.
func (h Handle) SetRoot(dir string) error {
	if err := replaceSymlink(dir, h.h.Join("root")); err != nil {
		return lcerrors.FromPathError("account.SetRoot", h.h.Join("root"), err)
	}
	return nil
}

// PrimaryGroup returns the account's primary gid, read from the
// "group" symlink's target basename.
func (h Handle) PrimaryGroup() (uint32, error) {
	base, err := readLinkBasename("account.PrimaryGroup", h.h.Join("group"))
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseUint(base, 10, 32)
	if perr != nil {
		return 0, lcerrors.InvalidDataf("account.PrimaryGroup", "non-numeric group symlink target %q", base)
	}
	return uint32(v), nil
}

// SetPrimaryGroup points the "group" symlink at the given gid's group
// directory.
func (h Handle) SetPrimaryGroup(gid uint32) error {
	target := h.store.resolver.GroupByGID(gid).Path()
	if err := replaceSymlink(target, h.h.Join("group")); err != nil {
		return lcerrors.FromPathError("account.SetPrimaryGroup", h.h.Join("group"), err)
	}
	return nil
}

// SecondaryGroups returns the account's supplementary gids, parsed
// from the comma-separated, sorted "groups" file. A missing file means
// no supplementary groups, not an error.
func (h Handle) SecondaryGroups() ([]uint32, error) {
	path := h.h.Join("groups")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, lcerrors.FromPathError("account.SecondaryGroups", path, err)
	}
	return parseGIDList(string(b))
}

func parseGIDList(s string) ([]uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	gids := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, lcerrors.InvalidDataf("account.SecondaryGroups", "non-numeric gid %q in groups file", f)
		}
		gids = append(gids, uint32(v))
	}
	return gids, nil
}

func writeGIDList(path string, gids []uint32) error {
	sorted := append([]uint32(nil), gids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, g := range sorted {
		parts[i] = strconv.FormatUint(uint64(g), 10)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(parts, ",")), 0o644); err != nil {
		return lcerrors.FromPathError("account.writeGIDList", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return lcerrors.FromPathError("account.writeGIDList", path, err)
	}
	return nil
}

// AddSecondaryGroup adds gid to the account's supplementary-group set,
// rewriting the "groups" file atomically via a temp-file rename. It is
// idempotent: adding an already-present gid is a no-op write.
func (h Handle) AddSecondaryGroup(gid uint32) error {
	current, err := h.SecondaryGroups()
	if err != nil {
		return err
	}
	for _, g := range current {
		if g == gid {
			return nil
		}
	}
	return writeGIDList(h.h.Join("groups"), append(current, gid))
}

// RemoveSecondaryGroup removes gid from the account's supplementary
// group set. Removing an absent gid is a no-op.
func (h Handle) RemoveSecondaryGroup(gid uint32) error {
	current, err := h.SecondaryGroups()
	if err != nil {
		return err
	}
	out := current[:0:0]
	for _, g := range current {
		if g != gid {
			out = append(out, g)
		}
	}
	return writeGIDList(h.h.Join("groups"), out)
}

// EffectiveGIDs returns the full group membership list a setgroups(2)
// call for this account would use: the primary gid followed by the
// supplementary gids, deduplicated.
func (h Handle) EffectiveGIDs() ([]uint32, error) {
	primary, primaryErr := h.PrimaryGroup()
	if primaryErr != nil && lcerrors.Of(primaryErr) != lcerrors.NotFound {
		return nil, primaryErr
	}
	secondary, err := h.SecondaryGroups()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, len(secondary)+1)
	seen := make(map[uint32]bool)
	if primaryErr == nil {
		out = append(out, primary)
		seen[primary] = true
	}
	for _, g := range secondary {
		if !seen[g] {
			out = append(out, g)
			seen[g] = true
		}
	}
	return out, nil
}

// HasPassword reports whether this account has a password file.
func (h Handle) HasPassword() bool {
	_, err := os.Lstat(h.PasswordPath())
	return err == nil
}

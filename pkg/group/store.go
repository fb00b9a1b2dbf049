// Package group implements the group-directory counterpart to
// pkg/account: name/gid lookups over the group symlink graph,
// grounded on the same from_name/from_uid symmetry the original
// account store exposes.
package group

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/lc-login/lc-login/pkg/lcerrors"
	"github.com/lc-login/lc-login/pkg/paths"
)

// Store binds group operations to a configured Resolver.
type Store struct {
	resolver *paths.Resolver
}

// NewStore builds a Store over the given Resolver.
func NewStore(resolver *paths.Resolver) *Store {
	return &Store{resolver: resolver}
}

// Handle is a bound group directory.
type Handle struct {
	store *Store
	h     paths.GroupHandle
}

// ByGID looks up a group by numeric gid.
func (s *Store) ByGID(gid uint32) Handle {
	return Handle{store: s, h: s.resolver.GroupByGID(gid)}
}

// ByName looks up a group by its name-indexed symlink.
func (s *Store) ByName(name string) (Handle, error) {
	h, err := s.resolver.GroupByName(name)
	if err != nil {
		return Handle{}, err
	}
	return Handle{store: s, h: h}, nil
}

// Path returns the group directory's absolute path.
func (h Handle) Path() string { return h.h.Path() }

// Name returns the group's name, read from its "name" back-reference
// symlink, or NotFound if the group has never been named.
func (h Handle) Name() (string, error) {
	target, err := os.Readlink(h.h.Join("name"))
	if err != nil {
		return "", lcerrors.FromPathError("group.Name", h.h.Join("name"), err)
	}
	return filepath.Base(target), nil
}

// SetName points both the forward name->group symlink and the group's
// own "name" back-reference at the new name, removing the old forward
// entry if one is registered.
func (h Handle) SetName(name string) error {
	if old, err := h.Name(); err == nil {
		_ = os.Remove(filepath.Join(h.store.resolver.GroupsRoot, old))
	}
	forward := filepath.Join(h.store.resolver.GroupsRoot, name)
	_ = os.Remove(forward)
	if err := os.Symlink(h.Path(), forward); err != nil {
		return lcerrors.FromPathError("group.SetName", forward, err)
	}
	back := h.h.Join("name")
	_ = os.Remove(back)
	if err := os.Symlink(forward, back); err != nil {
		return lcerrors.FromPathError("group.SetName", back, err)
	}
	return nil
}

// GID returns the group's numeric id, read from its "gid" symlink.
func (h Handle) GID() (uint32, error) {
	target, err := os.Readlink(h.h.Join("gid"))
	if err != nil {
		return 0, lcerrors.FromPathError("group.GID", h.h.Join("gid"), err)
	}
	base := filepath.Base(target)
	v, perr := strconv.ParseUint(base, 10, 32)
	if perr != nil {
		return 0, lcerrors.InvalidDataf("group.GID", "non-numeric gid symlink target %q", base)
	}
	return uint32(v), nil
}

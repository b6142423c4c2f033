package filesystem

import (
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/dotfold/dotfold/pkg/errors"
)

// SetOwner applies a "user" or "user:group" identity to path. Either
// part may be a name or a numeric id. An empty owner is a no-op, as is
// the whole call on platforms without ownership semantics.
func (r *Real) SetOwner(path, owner string) error {
	uid, gid, err := resolveOwner(owner)
	if err != nil {
		return err
	}
	if uid == -1 && gid == -1 {
		return nil
	}
	if err := os.Chown(path, uid, gid); err != nil {
		return errors.Wrapf(err, errors.ErrOwnership, "set owner of %s to %s", path, owner)
	}
	return nil
}

// setLinkOwner is SetOwner for symlinks, changing the link itself
// rather than what it points to
func (r *Real) setLinkOwner(link, owner string) error {
	uid, gid, err := resolveOwner(owner)
	if err != nil {
		return err
	}
	if uid == -1 && gid == -1 {
		return nil
	}
	if err := os.Lchown(link, uid, gid); err != nil {
		return errors.Wrapf(err, errors.ErrOwnership, "set owner of link %s to %s", link, owner)
	}
	return nil
}

// resolveOwner parses "user", ":group" or "user:group" into ids.
// -1 means leave that id unchanged.
func resolveOwner(owner string) (uid, gid int, err error) {
	uid, gid = -1, -1
	if owner == "" {
		return uid, gid, nil
	}

	userPart, groupPart, _ := strings.Cut(owner, ":")

	if userPart != "" {
		uid, err = lookupUser(userPart)
		if err != nil {
			return -1, -1, err
		}
	}
	if groupPart != "" {
		gid, err = lookupGroup(groupPart)
		if err != nil {
			return -1, -1, err
		}
	}
	return uid, gid, nil
}

func lookupUser(name string) (int, error) {
	if id, err := strconv.Atoi(name); err == nil {
		return id, nil
	}
	u, err := user.Lookup(name)
	if err != nil {
		return -1, errors.Wrapf(err, errors.ErrOwnership, "look up user %s", name)
	}
	id, err := strconv.Atoi(u.Uid)
	if err != nil {
		return -1, errors.Wrapf(err, errors.ErrOwnership, "parse uid for user %s", name)
	}
	return id, nil
}

func lookupGroup(name string) (int, error) {
	if id, err := strconv.Atoi(name); err == nil {
		return id, nil
	}
	g, err := user.LookupGroup(name)
	if err != nil {
		return -1, errors.Wrapf(err, errors.ErrOwnership, "look up group %s", name)
	}
	id, err := strconv.Atoi(g.Gid)
	if err != nil {
		return -1, errors.Wrapf(err, errors.ErrOwnership, "parse gid for group %s", name)
	}
	return id, nil
}

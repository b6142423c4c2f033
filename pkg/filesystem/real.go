package filesystem

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/dotfold/dotfold/pkg/errors"
	"github.com/dotfold/dotfold/pkg/logging"
)

// Real performs actual filesystem mutations. With interactive set it
// prompts on the controlling terminal before every destructive
// operation and surfaces a decline as ErrDeclined.
type Real struct {
	interactive bool
	logger      zerolog.Logger
}

// NewReal creates a Real filesystem
func NewReal(interactive bool) *Real {
	return &Real{
		interactive: interactive,
		logger:      logging.GetLogger("filesystem"),
	}
}

func (r *Real) CompareSymlink(source, target string) (SymlinkComparison, error) {
	_, err := os.Lstat(source)
	sourceExists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return 0, errors.Wrapf(err, errors.ErrFileRead, "stat symlink source %s", source)
	}

	targetState, err := statEntry(target)
	if err != nil {
		return 0, err
	}

	return classifySymlink(source, sourceExists, targetState), nil
}

func (r *Real) CompareTemplate(target, cachePath string) (TemplateComparison, error) {
	targetState, err := loadEntry(target)
	if err != nil {
		return 0, err
	}
	cachedState, err := loadEntry(cachePath)
	if err != nil {
		return 0, err
	}
	return classifyTemplate(targetState, cachedState), nil
}

func (r *Real) CreateDirAll(path, owner string) error {
	if path == "" {
		return nil
	}
	r.logger.Debug().Str("path", path).Msg("creating directory")
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "create directory %s", path)
	}
	if owner != "" {
		return r.SetOwner(path, owner)
	}
	return nil
}

func (r *Real) MakeSymlink(link, pointTo, owner string) error {
	r.logger.Debug().Str("link", link).Str("points_to", pointTo).Msg("creating symlink")
	if err := os.Symlink(pointTo, link); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "create symlink %s -> %s", link, pointTo)
	}
	if owner != "" {
		return r.setLinkOwner(link, owner)
	}
	return nil
}

func (r *Real) RemoveFile(path string) error {
	if err := r.confirm(fmt.Sprintf("Delete file %s?", path)); err != nil {
		return err
	}
	r.logger.Debug().Str("path", path).Msg("removing file")
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete, "remove file %s", path)
	}
	return nil
}

func (r *Real) RemoveDir(path string) error {
	if err := r.confirm(fmt.Sprintf("Delete directory %s and its contents?", path)); err != nil {
		return err
	}
	r.logger.Debug().Str("path", path).Msg("removing directory")
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete, "remove directory %s", path)
	}
	return nil
}

func (r *Real) ReadToString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "read file %s", path)
	}
	return string(data), nil
}

func (r *Real) WriteString(path, content string) error {
	if _, err := os.Lstat(path); err == nil {
		if err := r.confirm(fmt.Sprintf("Overwrite file %s?", path)); err != nil {
			return err
		}
	}
	r.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("writing file")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "write file %s", path)
	}
	return nil
}

func (r *Real) CopyFile(from, to, owner string) error {
	if _, err := os.Lstat(to); err == nil {
		if err := r.confirm(fmt.Sprintf("Overwrite file %s?", to)); err != nil {
			return err
		}
	}
	r.logger.Debug().Str("from", from).Str("to", to).Msg("copying file")
	data, err := os.ReadFile(from)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "read %s for copy", from)
	}
	if err := os.WriteFile(to, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "copy %s to %s", from, to)
	}
	if owner != "" {
		return r.SetOwner(to, owner)
	}
	return nil
}

func (r *Real) CopyPermissions(from, to, owner string) error {
	info, err := os.Stat(from)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "stat %s for permissions", from)
	}
	if err := os.Chmod(to, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "copy permissions from %s to %s", from, to)
	}
	if owner != "" {
		return r.SetOwner(to, owner)
	}
	return nil
}

// confirm prompts before a destructive operation in interactive mode.
// A negative answer yields ErrDeclined.
func (r *Real) confirm(message string) error {
	if !r.interactive {
		return nil
	}
	answer, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(message)
	if err != nil {
		return errors.Wrap(err, errors.ErrActionExecute, "read confirmation")
	}
	if !answer {
		r.logger.Info().Str("operation", message).Msg("declined by user")
		return ErrDeclined
	}
	return nil
}

// statEntry snapshots a path without reading content
func statEntry(path string) (entryState, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entryState{kind: kindAbsent}, nil
		}
		return entryState{}, errors.Wrapf(err, errors.ErrFileRead, "stat %s", path)
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		dest, err := os.Readlink(path)
		if err != nil {
			return entryState{}, errors.Wrapf(err, errors.ErrFileRead, "read link %s", path)
		}
		return entryState{kind: kindSymlink, linkDest: dest}, nil
	case info.IsDir():
		return entryState{kind: kindDir}, nil
	default:
		return entryState{kind: kindFile}, nil
	}
}

// loadEntry snapshots a path including file content, for template
// comparisons
func loadEntry(path string) (entryState, error) {
	state, err := statEntry(path)
	if err != nil || state.kind != kindFile {
		return state, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entryState{}, errors.Wrapf(err, errors.ErrFileRead, "read %s", path)
	}
	state.content = string(data)
	return state, nil
}

package actions

import (
	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/filesystem"
	"github.com/dotfold/dotfold/pkg/logging"
	"github.com/dotfold/dotfold/pkg/render"
	"github.com/dotfold/dotfold/pkg/state"
)

// CreateSymlink links a newly desired source into place
type CreateSymlink struct {
	state.SymlinkDescription
}

func (a *CreateSymlink) Run(fs filesystem.Filesystem, opts Options, _ render.Renderer, _ map[string]interface{}) (bool, error) {
	logger := logging.GetLogger("actions.symlink")

	comparison, err := fs.CompareSymlink(a.Source, a.Target.Target)
	if err != nil {
		return false, err
	}
	logger.Debug().Str("source", a.Source).Str("target", a.Target.Target).
		Stringer("comparison", comparison).Msg("creating symlink")

	switch comparison {
	case filesystem.SymlinkOnlySourceExists, filesystem.SymlinkBothMissing:
		return apply(func() error {
			return makeSymlink(fs, a.SymlinkDescription)
		})
	case filesystem.SymlinkIdentical:
		logger.Debug().Str("target", a.Target.Target).Msg("symlink already deployed")
		return true, nil
	default:
		if !opts.Force {
			logger.Error().Str("target", a.Target.Target).Stringer("comparison", comparison).
				Msg("symlink target already occupied, skipping")
			return false, nil
		}
		logger.Warn().Str("target", a.Target.Target).Msg("overwriting occupied symlink target")
		return apply(func() error {
			if err := fs.RemoveFile(a.Target.Target); err != nil {
				return err
			}
			return makeSymlink(fs, a.SymlinkDescription)
		})
	}
}

func (a *CreateSymlink) AffectCache(c *cache.Cache) {
	c.SetSymlink(a.Source, a.Target.Target)
}

func (a *CreateSymlink) Describe() string {
	return "create symlink " + a.String()
}

// UpdateSymlink re-verifies a symlink the cache already records
type UpdateSymlink struct {
	state.SymlinkDescription
}

func (a *UpdateSymlink) Run(fs filesystem.Filesystem, opts Options, _ render.Renderer, _ map[string]interface{}) (bool, error) {
	logger := logging.GetLogger("actions.symlink")

	comparison, err := fs.CompareSymlink(a.Source, a.Target.Target)
	if err != nil {
		return false, err
	}
	logger.Debug().Str("source", a.Source).Str("target", a.Target.Target).
		Stringer("comparison", comparison).Msg("updating symlink")

	switch comparison {
	case filesystem.SymlinkIdentical:
		return true, nil
	case filesystem.SymlinkOnlySourceExists, filesystem.SymlinkBothMissing:
		logger.Warn().Str("target", a.Target.Target).Msg("symlink target went missing, recreating")
		return apply(func() error {
			return makeSymlink(fs, a.SymlinkDescription)
		})
	default:
		if !opts.Force {
			logger.Error().Str("target", a.Target.Target).Stringer("comparison", comparison).
				Msg("symlink target was externally modified, skipping")
			return false, nil
		}
		logger.Warn().Str("target", a.Target.Target).Msg("overwriting externally modified symlink target")
		return apply(func() error {
			if err := fs.RemoveFile(a.Target.Target); err != nil {
				return err
			}
			return makeSymlink(fs, a.SymlinkDescription)
		})
	}
}

func (a *UpdateSymlink) AffectCache(c *cache.Cache) {
	c.SetSymlink(a.Source, a.Target.Target)
}

func (a *UpdateSymlink) Describe() string {
	return "update symlink " + a.String()
}

// DeleteSymlink removes a link the configuration no longer desires
type DeleteSymlink struct {
	Source string
	Target string
}

func (a *DeleteSymlink) Run(fs filesystem.Filesystem, opts Options, _ render.Renderer, _ map[string]interface{}) (bool, error) {
	logger := logging.GetLogger("actions.symlink")

	comparison, err := fs.CompareSymlink(a.Source, a.Target)
	if err != nil {
		return false, err
	}
	logger.Debug().Str("source", a.Source).Str("target", a.Target).
		Stringer("comparison", comparison).Msg("deleting symlink")

	switch comparison {
	case filesystem.SymlinkIdentical:
		return apply(func() error {
			return fs.RemoveFile(a.Target)
		})
	case filesystem.SymlinkOnlySourceExists, filesystem.SymlinkBothMissing:
		logger.Warn().Str("target", a.Target).Msg("symlink target already missing")
		return true, nil
	default:
		if !opts.Force {
			logger.Error().Str("target", a.Target).Stringer("comparison", comparison).
				Msg("target no longer points at the recorded link, skipping")
			return false, nil
		}
		logger.Warn().Str("target", a.Target).Msg("removing externally modified symlink target")
		return apply(func() error {
			return fs.RemoveFile(a.Target)
		})
	}
}

func (a *DeleteSymlink) AffectCache(c *cache.Cache) {
	c.RemoveSymlink(a.Source)
}

func (a *DeleteSymlink) Describe() string {
	return "delete symlink " + a.Source + " -> " + a.Target
}

// makeSymlink ensures the target's parent directory exists and creates
// the link
func makeSymlink(fs filesystem.Filesystem, desc state.SymlinkDescription) error {
	if err := fs.CreateDirAll(parentDir(desc.Target.Target), desc.Target.Owner); err != nil {
		return err
	}
	return fs.MakeSymlink(desc.Target.Target, desc.Source, desc.Target.Owner)
}

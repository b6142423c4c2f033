package actions

import (
	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/filesystem"
	"github.com/dotfold/dotfold/pkg/logging"
	"github.com/dotfold/dotfold/pkg/render"
	"github.com/dotfold/dotfold/pkg/state"
)

// CreateTemplate renders a newly desired template into place
type CreateTemplate struct {
	state.TemplateDescription
}

func (a *CreateTemplate) Run(fs filesystem.Filesystem, opts Options, renderer render.Renderer, variables map[string]interface{}) (bool, error) {
	return runTemplate(fs, opts, renderer, variables, a.TemplateDescription, "creating template")
}

func (a *CreateTemplate) AffectCache(c *cache.Cache) {
	c.SetTemplate(a.Source, a.Target.Target)
}

func (a *CreateTemplate) Describe() string {
	return "create template " + a.String()
}

// UpdateTemplate re-verifies a template the cache already records
type UpdateTemplate struct {
	state.TemplateDescription
}

func (a *UpdateTemplate) Run(fs filesystem.Filesystem, opts Options, renderer render.Renderer, variables map[string]interface{}) (bool, error) {
	return runTemplate(fs, opts, renderer, variables, a.TemplateDescription, "updating template")
}

func (a *UpdateTemplate) AffectCache(c *cache.Cache) {
	c.SetTemplate(a.Source, a.Target.Target)
}

func (a *UpdateTemplate) Describe() string {
	return "update template " + a.String()
}

// runTemplate is the shared create/update protocol: the comparison
// decides whether deployment may proceed, deployTemplate does the work.
func runTemplate(fs filesystem.Filesystem, opts Options, renderer render.Renderer, variables map[string]interface{}, desc state.TemplateDescription, msg string) (bool, error) {
	logger := logging.GetLogger("actions.template")

	comparison, err := fs.CompareTemplate(desc.Target.Target, desc.Cache)
	if err != nil {
		return false, err
	}
	logger.Debug().Str("source", desc.Source).Str("target", desc.Target.Target).
		Stringer("comparison", comparison).Msg(msg)

	switch comparison {
	case filesystem.TemplateIdentical:
		logger.Debug().Str("target", desc.Target.Target).Msg("template already deployed")
		return true, nil
	case filesystem.TemplateBothMissing, filesystem.TemplateOnlyCacheExists:
		return apply(func() error {
			return deployTemplate(fs, renderer, variables, desc)
		})
	default:
		if !opts.Force {
			logger.Error().Str("target", desc.Target.Target).Stringer("comparison", comparison).
				Msg("template target was externally modified, skipping")
			return false, nil
		}
		logger.Warn().Str("target", desc.Target.Target).Msg("overwriting externally modified template target")
		return apply(func() error {
			return deployTemplate(fs, renderer, variables, desc)
		})
	}
}

// deployTemplate renders the source through the renderer, stores the
// artifact at the cache path, copies it to the target, and carries the
// source's permissions (and optional owner) onto the target.
func deployTemplate(fs filesystem.Filesystem, renderer render.Renderer, variables map[string]interface{}, desc state.TemplateDescription) error {
	if err := fs.CreateDirAll(parentDir(desc.Target.Target), desc.Target.Owner); err != nil {
		return err
	}

	content, err := fs.ReadToString(desc.Source)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(desc.Source, content, variables)
	if err != nil {
		return err
	}
	rendered = desc.Target.Prepend + rendered + desc.Target.Append

	if err := fs.CreateDirAll(parentDir(desc.Cache), ""); err != nil {
		return err
	}
	if err := fs.WriteString(desc.Cache, rendered); err != nil {
		return err
	}
	if err := fs.CopyFile(desc.Cache, desc.Target.Target, desc.Target.Owner); err != nil {
		return err
	}
	return fs.CopyPermissions(desc.Source, desc.Target.Target, desc.Target.Owner)
}

// DeleteTemplate removes a deployed template the configuration no
// longer desires, along with its cached artifact
type DeleteTemplate struct {
	Source string
	Cache  string
	Target string
}

func (a *DeleteTemplate) Run(fs filesystem.Filesystem, opts Options, _ render.Renderer, _ map[string]interface{}) (bool, error) {
	logger := logging.GetLogger("actions.template")

	comparison, err := fs.CompareTemplate(a.Target, a.Cache)
	if err != nil {
		return false, err
	}
	logger.Debug().Str("source", a.Source).Str("target", a.Target).
		Stringer("comparison", comparison).Msg("deleting template")

	switch comparison {
	case filesystem.TemplateIdentical:
		return apply(func() error {
			if err := fs.RemoveFile(a.Target); err != nil {
				return err
			}
			return fs.RemoveFile(a.Cache)
		})
	case filesystem.TemplateOnlyCacheExists:
		logger.Warn().Str("target", a.Target).Msg("template target already missing")
		return apply(func() error {
			return fs.RemoveFile(a.Cache)
		})
	case filesystem.TemplateBothMissing:
		logger.Warn().Str("target", a.Target).Msg("template target and cached artifact already missing")
		return true, nil
	default:
		if !opts.Force {
			logger.Error().Str("target", a.Target).Stringer("comparison", comparison).
				Msg("template target does not match the cached artifact, skipping")
			return false, nil
		}
		logger.Warn().Str("target", a.Target).Msg("removing externally modified template target")
		return apply(func() error {
			if err := fs.RemoveFile(a.Target); err != nil {
				return err
			}
			if comparison == filesystem.TemplateMismatch {
				return fs.RemoveFile(a.Cache)
			}
			return nil
		})
	}
}

func (a *DeleteTemplate) AffectCache(c *cache.Cache) {
	c.RemoveTemplate(a.Source)
}

func (a *DeleteTemplate) Describe() string {
	return "delete template " + a.Source + " -> " + a.Target
}

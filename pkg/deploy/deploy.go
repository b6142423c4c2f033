// Package deploy orchestrates a full reconciliation run: load
// configuration and cache, build the file state, plan, execute the
// plan through the selected filesystem, and persist the cache.
//
// Execution is strictly sequential. Later actions may depend on earlier
// ones (template deployment into directories symlink creation
// establishes), and cache mutations must stay ordered with the action
// that justified them. The cache is written once after the whole plan
// has run; dry-run never writes it.
package deploy

import (
	"fmt"

	"github.com/dotfold/dotfold/pkg/actions"
	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/config"
	"github.com/dotfold/dotfold/pkg/errors"
	"github.com/dotfold/dotfold/pkg/filesystem"
	"github.com/dotfold/dotfold/pkg/hooks"
	"github.com/dotfold/dotfold/pkg/logging"
	"github.com/dotfold/dotfold/pkg/plan"
	"github.com/dotfold/dotfold/pkg/render"
	"github.com/dotfold/dotfold/pkg/state"
	"github.com/dotfold/dotfold/pkg/style"
)

// Options carries a run's flags and file locations
type Options struct {
	// Act performs mutations; false previews them (dry-run)
	Act bool
	// Force permits overwriting/removing entities in conflict state
	Force bool
	// Interactive prompts before destructive operations
	Interactive bool

	GlobalConfig string
	LocalConfig  string
	CacheFile    string
	CacheDir     string

	PreDeploy    string
	PostDeploy   string
	PreUndeploy  string
	PostUndeploy string

	// Patch is an optional configuration overlay (from stdin)
	Patch *config.Configuration
}

// Deploy reconciles the desired state against the cache and disk.
// The returned bool reports whether any per-action error occurred;
// a non-nil error is a fatal setup failure with no mutations made.
func Deploy(opts Options) (bool, error) {
	logger := logging.GetLogger("deploy")

	cfg, err := config.Load(opts.GlobalConfig, opts.LocalConfig, opts.Patch)
	if err != nil {
		return false, err
	}

	managed, err := cache.Load(opts.CacheFile)
	if err != nil {
		if !errors.IsCode(err, errors.ErrCacheMissing) {
			return false, err
		}
		logger.Warn().Str("path", opts.CacheFile).Msg("cache file not found, assuming cache is empty")
		managed = cache.New()
	}

	fileState, err := state.FromConfiguration(cfg, managed, opts.CacheDir)
	if err != nil {
		return false, err
	}

	renderer := render.New()

	if opts.Act {
		logger.Debug().Msg("running pre-deploy hook")
		if err := hooks.Run(opts.PreDeploy, opts.CacheDir, renderer, cfg.Variables); err != nil {
			return false, errors.Wrap(err, errors.ErrHookRun, "run pre-deploy hook")
		}
	}

	actionPlan := plan.Deploy(fileState)
	fs := selectFilesystem(opts)

	if !opts.Act {
		fmt.Println(style.RenderPlan("Planned actions", describeAll(actionPlan)))
	}

	errorOccurred := runPlan(actionPlan, fs, opts, renderer, cfg.Variables, managed)

	if opts.Act {
		if err := managed.Save(opts.CacheFile); err != nil {
			return errorOccurred, errors.Wrap(err, errors.ErrCacheSave, "save cache")
		}

		logger.Debug().Msg("running post-deploy hook")
		if err := hooks.Run(opts.PostDeploy, opts.CacheDir, renderer, cfg.Variables); err != nil {
			return errorOccurred, errors.Wrap(err, errors.ErrHookRun, "run post-deploy hook")
		}
	}

	return errorOccurred, nil
}

// Undeploy removes every managed entity recorded in the cache.
// Unlike deploy, a missing cache is fatal: there is nothing to remove
// and no way to know what was deployed.
func Undeploy(opts Options) (bool, error) {
	logger := logging.GetLogger("deploy")

	cfg, err := config.Load(opts.GlobalConfig, opts.LocalConfig, nil)
	if err != nil {
		return false, err
	}

	managed, err := cache.Load(opts.CacheFile)
	if err != nil {
		if errors.IsCode(err, errors.ErrCacheMissing) {
			return false, errors.Wrap(err, errors.ErrCacheMissing, "load cache: cannot undeploy without a cache")
		}
		return false, err
	}

	renderer := render.New()

	if opts.Act {
		logger.Debug().Msg("running pre-undeploy hook")
		if err := hooks.Run(opts.PreUndeploy, opts.CacheDir, renderer, cfg.Variables); err != nil {
			return false, errors.Wrap(err, errors.ErrHookRun, "run pre-undeploy hook")
		}
	}

	actionPlan := plan.Undeploy(managed, opts.CacheDir)
	fs := selectFilesystem(opts)

	if !opts.Act {
		fmt.Println(style.RenderPlan("Planned actions", describeAll(actionPlan)))
	}

	errorOccurred := runPlan(actionPlan, fs, opts, renderer, cfg.Variables, managed)

	if opts.Act {
		// Should be empty if everything went well; skipped entries remain.
		if err := managed.Save(opts.CacheFile); err != nil {
			return errorOccurred, errors.Wrap(err, errors.ErrCacheSave, "save cache")
		}

		logger.Debug().Msg("running post-undeploy hook")
		if err := hooks.Run(opts.PostUndeploy, opts.CacheDir, renderer, cfg.Variables); err != nil {
			return errorOccurred, errors.Wrap(err, errors.ErrHookRun, "run post-undeploy hook")
		}
	}

	return errorOccurred, nil
}

// runPlan applies each action in order. A failing action is reported
// and never aborts the rest of the plan; skips are aggregated into a
// single end-of-run warning.
func runPlan(actionPlan []actions.Action, fs filesystem.Filesystem, opts Options, renderer render.Renderer, variables map[string]interface{}, managed *cache.Cache) bool {
	actionOpts := actions.Options{Force: opts.Force}

	suggestForce := false
	errorOccurred := false

	for _, action := range actionPlan {
		applied, err := action.Run(fs, actionOpts, renderer, variables)
		switch {
		case err != nil:
			errorOccurred = true
			style.PrintActionError(action.Describe(), err)
		case applied:
			action.AffectCache(managed)
		default:
			suggestForce = true
		}
	}

	if suggestForce {
		style.PrintSkipWarning()
		errorOccurred = true
	}

	return errorOccurred
}

func selectFilesystem(opts Options) filesystem.Filesystem {
	if opts.Act {
		return filesystem.NewReal(opts.Interactive)
	}
	return filesystem.NewDryRun()
}

func describeAll(actionPlan []actions.Action) []string {
	items := make([]string, len(actionPlan))
	for i, action := range actionPlan {
		items[i] = action.Describe()
	}
	return items
}

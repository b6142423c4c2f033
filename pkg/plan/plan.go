// Package plan turns desired and existing entity sets into an ordered
// action list.
//
// The six-phase ordering is a deliberate invariant: deletions vacate
// paths before any creation might need them, and symlinks are handled
// before templates within each phase because template deployment may
// depend on directory structure symlink creation establishes. The
// phases are concatenated explicitly; no merged sort may reorder them.
package plan

import (
	"path/filepath"

	"github.com/dotfold/dotfold/pkg/actions"
	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/logging"
	"github.com/dotfold/dotfold/pkg/state"
)

// Deploy diffs desired against existing sets into the ordered plan:
// delete-links, delete-templates, create-links, create-templates,
// update-links, update-templates. Pure function over validated data;
// it cannot fail.
func Deploy(fileState *state.FileState) []actions.Action {
	logger := logging.GetLogger("plan")

	desiredSymlinks := symlinkKeys(fileState.DesiredSymlinks)
	existingSymlinks := symlinkKeys(fileState.ExistingSymlinks)
	desiredTemplates := templateKeys(fileState.DesiredTemplates)
	existingTemplates := templateKeys(fileState.ExistingTemplates)

	var plan []actions.Action

	// Phase 1: delete symlinks no longer desired
	for _, desc := range fileState.ExistingSymlinks {
		if _, ok := desiredSymlinks[desc.Key()]; !ok {
			plan = append(plan, &actions.DeleteSymlink{
				Source: desc.Source,
				Target: desc.Target.Target,
			})
		}
	}

	// Phase 2: delete templates no longer desired
	for _, desc := range fileState.ExistingTemplates {
		if _, ok := desiredTemplates[desc.Key()]; !ok {
			plan = append(plan, &actions.DeleteTemplate{
				Source: desc.Source,
				Cache:  desc.Cache,
				Target: desc.Target.Target,
			})
		}
	}

	// Phase 3: create newly desired symlinks
	for _, desc := range fileState.DesiredSymlinks {
		if _, ok := existingSymlinks[desc.Key()]; !ok {
			plan = append(plan, &actions.CreateSymlink{SymlinkDescription: desc})
		}
	}

	// Phase 4: create newly desired templates
	for _, desc := range fileState.DesiredTemplates {
		if _, ok := existingTemplates[desc.Key()]; !ok {
			plan = append(plan, &actions.CreateTemplate{TemplateDescription: desc})
		}
	}

	// Phase 5: update symlinks that remain desired
	for _, desc := range fileState.DesiredSymlinks {
		if _, ok := existingSymlinks[desc.Key()]; ok {
			plan = append(plan, &actions.UpdateSymlink{SymlinkDescription: desc})
		}
	}

	// Phase 6: update templates that remain desired
	for _, desc := range fileState.DesiredTemplates {
		if _, ok := existingTemplates[desc.Key()]; ok {
			plan = append(plan, &actions.UpdateTemplate{TemplateDescription: desc})
		}
	}

	logger.Debug().Int("actions", len(plan)).Msg("deploy plan computed")
	return plan
}

// Undeploy ignores desired state entirely: one delete action per cache
// entry, symlinks first, in cache order.
func Undeploy(c *cache.Cache, cacheDir string) []actions.Action {
	logger := logging.GetLogger("plan")

	var plan []actions.Action

	for _, source := range c.SymlinkSources() {
		plan = append(plan, &actions.DeleteSymlink{
			Source: source,
			Target: c.Symlinks[source],
		})
	}
	for _, source := range c.TemplateSources() {
		plan = append(plan, &actions.DeleteTemplate{
			Source: source,
			Cache:  filepath.Join(cacheDir, source),
			Target: c.Templates[source],
		})
	}

	logger.Debug().Int("actions", len(plan)).Msg("undeploy plan computed")
	return plan
}

func symlinkKeys(descs []state.SymlinkDescription) map[state.Key]struct{} {
	keys := make(map[state.Key]struct{}, len(descs))
	for _, desc := range descs {
		keys[desc.Key()] = struct{}{}
	}
	return keys
}

func templateKeys(descs []state.TemplateDescription) map[state.Key]struct{} {
	keys := make(map[state.Key]struct{}, len(descs))
	for _, desc := range descs {
		keys[desc.Key()] = struct{}{}
	}
	return keys
}

// Package actions defines the planned filesystem mutations and the
// execution protocol that applies them.
//
// Each action runs independently: it classifies the on-disk state
// through the filesystem's comparison calls, decides whether it may
// proceed under the conflict policy, performs its mutations, and
// reports one of three outcomes. Applied (true, nil) means the cache
// should be updated via AffectCache; skipped (false, nil) means a
// conflict or user decline was left alone and the caller should suggest
// --force once at the end of the run; an error is surfaced for this
// action alone and never aborts the rest of the plan.
package actions

import (
	goerrors "errors"
	"path/filepath"

	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/filesystem"
	"github.com/dotfold/dotfold/pkg/render"
)

// Options carries the run flags that gate conflict handling
type Options struct {
	// Force permits overwriting or removing entities in conflict state
	Force bool
}

// Action is a single planned mutation for one entity
type Action interface {
	// Run applies the action. True means applied and the cache should be
	// mutated; false with a nil error means skipped (non-fatal).
	Run(fs filesystem.Filesystem, opts Options, renderer render.Renderer, variables map[string]interface{}) (bool, error)

	// AffectCache records a successful application in the cache
	AffectCache(c *cache.Cache)

	// Describe returns a short human-readable summary
	Describe() string
}

// apply funnels a mutation sequence into the Run outcome: an
// interactive decline anywhere in the sequence is a skip, not an error.
func apply(mutate func() error) (bool, error) {
	if err := mutate(); err != nil {
		if goerrors.Is(err, filesystem.ErrDeclined) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// parentDir returns the directory that must exist for path to be
// created; empty when path has no parent to create.
func parentDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	return dir
}

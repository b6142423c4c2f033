// Package state computes the desired and existing entity sets a run
// reconciles.
//
// Desired sets come from the loaded configuration; existing sets are
// reconstructed from the cache, not from a filesystem scan. The cache
// is trusted as the record of what dotfold manages, and actual disk
// state is verified lazily when each action executes. This keeps state
// construction O(cache size) and defers filesystem probing to the one
// place that can handle conflicts.
package state

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotfold/dotfold/pkg/cache"
	"github.com/dotfold/dotfold/pkg/config"
	"github.com/dotfold/dotfold/pkg/errors"
)

// Key identifies a description for set operations: two descriptions are
// the same entity iff source and target path match. Owner and
// prepend/append do not participate, so an entry whose decoration
// changed still lands in the update phase rather than delete+create.
type Key struct {
	Source string
	Target string
}

// SymlinkDescription is a desired or existing link from a managed
// source file to a filesystem location
type SymlinkDescription struct {
	Source string
	Target config.SymbolicTarget
}

// Key returns the set-operation identity of the description
func (d SymlinkDescription) Key() Key {
	return Key{Source: d.Source, Target: d.Target.Target}
}

func (d SymlinkDescription) String() string {
	return d.Source + " -> " + d.Target.Target
}

// TemplateDescription is a desired or existing rendered template.
// Cache is the path the rendered artifact is stored at before being
// copied to the target.
type TemplateDescription struct {
	Source string
	Target config.TemplateTarget
	Cache  string
}

// Key returns the set-operation identity of the description
func (d TemplateDescription) Key() Key {
	return Key{Source: d.Source, Target: d.Target.Target}
}

func (d TemplateDescription) String() string {
	return d.Source + " -> " + d.Target.Target
}

// FileState holds the four sets a run diffs. Built once per run,
// immutable thereafter. Slices are kept sorted by (source, target) so
// plans are reproducible regardless of map iteration order.
type FileState struct {
	DesiredSymlinks   []SymlinkDescription
	DesiredTemplates  []TemplateDescription
	ExistingSymlinks  []SymlinkDescription
	ExistingTemplates []TemplateDescription
}

// FromConfiguration builds the FileState for a run. cacheDir is where
// rendered template artifacts live; each template's artifact path is
// cacheDir/source.
func FromConfiguration(cfg *config.Configuration, c *cache.Cache, cacheDir string) (*FileState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cacheDir) == "" {
		return nil, errors.New(errors.ErrConfigValid, "cache directory must not be empty")
	}

	fs := &FileState{}

	for source, target := range cfg.Symlinks {
		fs.DesiredSymlinks = append(fs.DesiredSymlinks, SymlinkDescription{
			Source: source,
			Target: target,
		})
	}
	for source, target := range cfg.Templates {
		fs.DesiredTemplates = append(fs.DesiredTemplates, TemplateDescription{
			Source: source,
			Target: target,
			Cache:  filepath.Join(cacheDir, source),
		})
	}

	for _, source := range c.SymlinkSources() {
		fs.ExistingSymlinks = append(fs.ExistingSymlinks, SymlinkDescription{
			Source: source,
			Target: config.SymbolicTarget{Target: c.Symlinks[source]},
		})
	}
	for _, source := range c.TemplateSources() {
		fs.ExistingTemplates = append(fs.ExistingTemplates, TemplateDescription{
			Source: source,
			Target: config.TemplateTarget{Target: c.Templates[source]},
			Cache:  filepath.Join(cacheDir, source),
		})
	}

	SortSymlinks(fs.DesiredSymlinks)
	SortTemplates(fs.DesiredTemplates)
	// Existing sets are already sorted by cache key order

	return fs, nil
}

// SortSymlinks orders descriptions by (source, target)
func SortSymlinks(descs []SymlinkDescription) {
	sort.Slice(descs, func(i, j int) bool {
		return lessKey(descs[i].Key(), descs[j].Key())
	})
}

// SortTemplates orders descriptions by (source, target)
func SortTemplates(descs []TemplateDescription) {
	sort.Slice(descs, func(i, j int) bool {
		return lessKey(descs[i].Key(), descs[j].Key())
	})
}

func lessKey(a, b Key) bool {
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.Target < b.Target
}

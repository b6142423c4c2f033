// Package config loads and merges dotfold's desired-state configuration.
//
// Configuration is layered: the global file is loaded first, the local
// (per-machine) file is merged over it, DOTFOLD_VAR_* environment
// variables are merged into the variable context, and finally an
// optional manual patch read from stdin is overlaid. The result is the
// desired set of symlinks and templates plus the variable context used
// for template rendering.
package config

import (
	"strings"

	"github.com/dotfold/dotfold/pkg/errors"
)

// SymbolicTarget describes where a desired symlink should live
type SymbolicTarget struct {
	Target string `toml:"target"`
	Owner  string `toml:"owner,omitempty"`
}

// TemplateTarget describes where a rendered template should live,
// optionally wrapped in literal prepend/append text
type TemplateTarget struct {
	Target  string `toml:"target"`
	Owner   string `toml:"owner,omitempty"`
	Prepend string `toml:"prepend,omitempty"`
	Append  string `toml:"append,omitempty"`
}

// Configuration is the merged desired state for a run
type Configuration struct {
	Symlinks  map[string]SymbolicTarget
	Templates map[string]TemplateTarget
	Variables map[string]interface{}
}

// Validate checks structural soundness: no empty sources or targets.
// Violations are configuration errors, never planner errors.
func (c *Configuration) Validate() error {
	for source, target := range c.Symlinks {
		if strings.TrimSpace(source) == "" {
			return errors.New(errors.ErrConfigValid, "symlink with empty source path")
		}
		if strings.TrimSpace(target.Target) == "" {
			return errors.Newf(errors.ErrConfigValid, "symlink %q has empty target path", source)
		}
	}
	for source, target := range c.Templates {
		if strings.TrimSpace(source) == "" {
			return errors.New(errors.ErrConfigValid, "template with empty source path")
		}
		if strings.TrimSpace(target.Target) == "" {
			return errors.Newf(errors.ErrConfigValid, "template %q has empty target path", source)
		}
	}
	return nil
}

// merge overlays other onto c. Entries in other win; variables are
// merged key-by-key.
func (c *Configuration) merge(other *Configuration) {
	for source, target := range other.Symlinks {
		c.Symlinks[source] = target
	}
	for source, target := range other.Templates {
		c.Templates[source] = target
	}
	for key, value := range other.Variables {
		c.Variables[key] = value
	}
}

func newConfiguration() *Configuration {
	return &Configuration{
		Symlinks:  make(map[string]SymbolicTarget),
		Templates: make(map[string]TemplateTarget),
		Variables: make(map[string]interface{}),
	}
}

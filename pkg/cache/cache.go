// Package cache is the persisted ledger of entities dotfold manages.
//
// The cache records, per entity kind, which source produced which
// target on the last successful run. It is the sole source of truth
// for ownership: an on-disk file not traceable to a cache entry is
// never touched without --force. Entries are mutated only after the
// action that justifies them succeeds, and the file is written once
// after the whole plan has run.
package cache

import (
	"os"
	"path/filepath"
	"sort"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/dotfold/dotfold/pkg/errors"
)

// Cache maps managed source paths to their deployed targets
type Cache struct {
	Symlinks  map[string]string `toml:"symlinks"`
	Templates map[string]string `toml:"templates"`
}

// New returns an empty cache
func New() *Cache {
	return &Cache{
		Symlinks:  make(map[string]string),
		Templates: make(map[string]string),
	}
}

// Load reads the cache file at path. A missing file yields an
// ErrCacheMissing error so callers can decide whether that is fatal
// (undeploy) or merely a first run (deploy).
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrCacheMissing, "cache file %s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrCacheLoad, "read cache file %s", path)
	}

	c := New()
	if err := gotoml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCacheLoad, "parse cache file %s", path)
	}
	if c.Symlinks == nil {
		c.Symlinks = make(map[string]string)
	}
	if c.Templates == nil {
		c.Templates = make(map[string]string)
	}
	return c, nil
}

// Save writes the cache to path, creating parent directories as needed
func (c *Cache) Save(path string) error {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrCacheSave, "serialize cache")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrCacheSave, "create cache directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrCacheSave, "write cache file %s", path)
	}
	return nil
}

// SetSymlink records source as deploying a symlink at target
func (c *Cache) SetSymlink(source, target string) {
	c.Symlinks[source] = target
}

// RemoveSymlink forgets the symlink deployed from source
func (c *Cache) RemoveSymlink(source string) {
	delete(c.Symlinks, source)
}

// SetTemplate records source as deploying a rendered template at target
func (c *Cache) SetTemplate(source, target string) {
	c.Templates[source] = target
}

// RemoveTemplate forgets the template deployed from source
func (c *Cache) RemoveTemplate(source string) {
	delete(c.Templates, source)
}

// IsEmpty reports whether the cache records no managed entities
func (c *Cache) IsEmpty() bool {
	return len(c.Symlinks) == 0 && len(c.Templates) == 0
}

// SymlinkSources returns managed symlink sources in sorted order
func (c *Cache) SymlinkSources() []string {
	return sortedKeys(c.Symlinks)
}

// TemplateSources returns managed template sources in sorted order
func (c *Cache) TemplateSources() []string {
	return sortedKeys(c.Templates)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package paths provides centralized path handling for dotfold.
// Defaults follow the conventional in-repo layout (a .dotfold directory
// next to the managed files) with environment overrides and an XDG
// fallback for machine-local files.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvGlobalConfig overrides the global configuration file location
	EnvGlobalConfig = "DOTFOLD_GLOBAL_CONFIG"

	// EnvLocalConfig overrides the local configuration file location
	EnvLocalConfig = "DOTFOLD_LOCAL_CONFIG"

	// EnvCacheFile overrides the cache file location
	EnvCacheFile = "DOTFOLD_CACHE_FILE"

	// EnvCacheDir overrides the cache directory location
	EnvCacheDir = "DOTFOLD_CACHE_DIR"
)

// Default locations, relative to the directory dotfold runs in.
// These mirror the conventional dotfiles-repo layout: everything
// dotfold needs lives under a single .dotfold directory.
const (
	// DotfoldDirName is the directory holding dotfold's own files
	DotfoldDirName = ".dotfold"

	// GlobalConfigFile is the default global configuration file
	GlobalConfigFile = "global.toml"

	// LocalConfigFile is the default local (per-machine) configuration file
	LocalConfigFile = "local.toml"

	// CacheFileName is the default cache file
	CacheFileName = "cache.toml"

	// CacheDirName is the default directory for rendered template artifacts
	CacheDirName = "cache"

	// HooksDirName is the directory holding lifecycle hook scripts
	HooksDirName = "hooks"
)

// Paths resolves the file locations a run operates on
type Paths struct {
	GlobalConfig string
	LocalConfig  string
	CacheFile    string
	CacheDir     string
	HooksDir     string
}

// New resolves paths rooted at dir, honoring environment overrides.
// An empty dir means the current working directory.
func New(dir string) Paths {
	if dir == "" {
		dir = "."
	}
	base := filepath.Join(dir, DotfoldDirName)

	p := Paths{
		GlobalConfig: filepath.Join(base, GlobalConfigFile),
		LocalConfig:  filepath.Join(base, LocalConfigFile),
		CacheFile:    filepath.Join(base, CacheFileName),
		CacheDir:     filepath.Join(base, CacheDirName),
		HooksDir:     filepath.Join(base, HooksDirName),
	}

	if v := os.Getenv(EnvGlobalConfig); v != "" {
		p.GlobalConfig = v
	}
	if v := os.Getenv(EnvLocalConfig); v != "" {
		p.LocalConfig = v
	}
	if v := os.Getenv(EnvCacheFile); v != "" {
		p.CacheFile = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		p.CacheDir = v
	}

	return p
}

// StateDir returns the XDG state directory for dotfold, used for
// machine-local files that do not belong in the dotfiles repo.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "dotfold")
}

// Package paths provides centralized path handling for typm.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
//
// typm writes packages into the Typst compiler's own directory tree
// (<XDG_DATA_HOME>/typst and <XDG_CACHE_HOME>/typst) so that installed
// packages are immediately importable, while typm's own configuration
// lives under <XDG_CONFIG_HOME>/typm.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvTypmDataDir overrides the Typst data directory
	EnvTypmDataDir = "TYPM_DATA_DIR"

	// EnvTypmCacheDir overrides the Typst cache directory
	EnvTypmCacheDir = "TYPM_CACHE_DIR"

	// EnvTypmConfigDir overrides the typm config directory
	EnvTypmConfigDir = "TYPM_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: TypstDirName and PackagesDirName mirror the Typst compiler's
// on-disk package layout and are NOT user-configurable. Changing them would
// produce packages the compiler cannot find.
const (
	// TypstDirName is the directory name the Typst compiler uses under
	// the XDG data and cache roots
	TypstDirName = "typst"

	// TypmDirName is the directory name for typm-specific files
	TypmDirName = "typm"

	// PackagesDirName is the subdirectory holding installed packages
	PackagesDirName = "packages"

	// ConfigFileName is the name of typm's configuration file
	ConfigFileName = "config.toml"
)

// Paths provides centralized path management for typm
type Paths interface {
	// DataDir returns the Typst data directory
	DataDir() string

	// CacheDir returns the Typst cache directory
	CacheDir() string

	// ConfigDir returns typm's own config directory
	ConfigDir() string

	// DataPackagesRoot returns the package root under the data directory
	DataPackagesRoot() string

	// CachePackagesRoot returns the package root under the cache directory
	CachePackagesRoot() string

	// ConfigFilePath returns the path to typm's config file
	ConfigFilePath() string
}

type paths struct {
	xdgData   string
	xdgCache  string
	xdgConfig string
}

// New creates a new Paths instance from the XDG base directories,
// respecting the TYPM_* environment overrides.
func New() Paths {
	p := &paths{}

	if dataDir := os.Getenv(EnvTypmDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, TypstDirName)
	}

	if cacheDir := os.Getenv(EnvTypmCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, TypstDirName)
	}

	if configDir := os.Getenv(EnvTypmConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, TypmDirName)
	}

	return p
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// DataDir returns the Typst data directory
func (p *paths) DataDir() string {
	return p.xdgData
}

// CacheDir returns the Typst cache directory
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// ConfigDir returns typm's own config directory
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// DataPackagesRoot returns the package root under the data directory
func (p *paths) DataPackagesRoot() string {
	return filepath.Join(p.xdgData, PackagesDirName)
}

// CachePackagesRoot returns the package root under the cache directory
func (p *paths) CachePackagesRoot() string {
	return filepath.Join(p.xdgCache, PackagesDirName)
}

// ConfigFilePath returns the path to typm's config file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// Package list enumerates the packages installed under the Typst data
// and cache directories.
package list

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/logging"
	"github.com/jassielof/typm/pkg/paths"
)

// Kind distinguishes the two package roots Typst reads from.
type Kind string

const (
	// KindLocal covers packages installed into the data directory.
	KindLocal Kind = "local"
	// KindPreview covers packages the compiler cached from the preview
	// namespace into the cache directory.
	KindPreview Kind = "preview"
)

// ListPackagesOptions holds options for the list command
type ListPackagesOptions struct {
	Paths paths.Paths // Allow injecting paths for testing
	// LocalOnly limits the listing to the data directory
	LocalOnly bool
	// PreviewOnly limits the listing to the cache directory
	PreviewOnly bool
}

// PackageInfo identifies one installed package version.
type PackageInfo struct {
	Namespace string
	Name      string
	Version   string
}

// RootListing is the scan result for one package root.
type RootListing struct {
	Kind Kind
	// DirType names the directory family in messages: "data" or "cache"
	DirType  string
	Path     string
	Exists   bool
	Packages []PackageInfo
}

// ListPackagesResult reports every scanned root and the package total
type ListPackagesResult struct {
	Roots []RootListing
	Total int
}

// ListPackages scans the selected package roots. Roots follow the
// <root>/<namespace>/<name>/<version> layout; only directories count at
// each level. A missing root is reported, not an error.
func ListPackages(opts ListPackagesOptions) (*ListPackagesResult, error) {
	logger := logging.GetLogger("commands.list")
	logger.Debug().
		Bool("local_only", opts.LocalOnly).
		Bool("preview_only", opts.PreviewOnly).
		Msg("Listing packages")

	p := opts.Paths
	if p == nil {
		p = paths.New()
	}

	listAll := !opts.LocalOnly && !opts.PreviewOnly
	result := &ListPackagesResult{}

	if opts.LocalOnly || listAll {
		listing, err := scanRoot(KindLocal, "data", p.DataPackagesRoot())
		if err != nil {
			return nil, err
		}
		result.Roots = append(result.Roots, listing)
		result.Total += len(listing.Packages)
	}
	if opts.PreviewOnly || listAll {
		listing, err := scanRoot(KindPreview, "cache", p.CachePackagesRoot())
		if err != nil {
			return nil, err
		}
		result.Roots = append(result.Roots, listing)
		result.Total += len(listing.Packages)
	}

	logger.Info().Int("total", result.Total).Msg("Listing finished")
	return result, nil
}

func scanRoot(kind Kind, dirType, root string) (RootListing, error) {
	listing := RootListing{Kind: kind, DirType: dirType, Path: root}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return listing, nil
	}
	listing.Exists = true

	namespaces, err := subdirs(root)
	if err != nil {
		return listing, err
	}
	for _, namespace := range namespaces {
		names, err := subdirs(filepath.Join(root, namespace))
		if err != nil {
			return listing, err
		}
		for _, name := range names {
			versions, err := subdirs(filepath.Join(root, namespace, name))
			if err != nil {
				return listing, err
			}
			for _, version := range versions {
				listing.Packages = append(listing.Packages, PackageInfo{
					Namespace: namespace,
					Name:      name,
					Version:   version,
				})
			}
		}
	}

	return listing, nil
}

// subdirs returns the directory entries of dir in name order, following
// symlinks so a linked package tree still shows up.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			if entry.Type()&fs.ModeSymlink == 0 {
				continue
			}
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.IsDir() {
				continue
			}
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

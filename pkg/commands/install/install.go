// Package install fetches a package from a git hosting provider and
// materializes it into the local Typst data directory under a
// provider-derived namespace, ready for importing.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/gitrun"
	"github.com/jassielof/typm/pkg/gitsource"
	"github.com/jassielof/typm/pkg/layout"
	"github.com/jassielof/typm/pkg/logging"
	"github.com/jassielof/typm/pkg/manifest"
	"github.com/jassielof/typm/pkg/materialize"
	"github.com/jassielof/typm/pkg/paths"
	"github.com/jassielof/typm/pkg/typstbin"
	"github.com/jassielof/typm/pkg/ui"
)

// InstallPackageOptions holds options for the install command
type InstallPackageOptions struct {
	// Source is a git URL or a provider alias like gh/owner/repo
	Source   string
	Paths    paths.Paths       // Allow injecting paths for testing
	Runner   gitrun.Runner     // Allow injecting a git runner for testing
	Compiler typstbin.Compiler // Allow injecting a compiler for testing
	Selector ui.Selector       // Resolves ambiguous manifest locations
	Out      io.Writer         // Progress output, defaults to os.Stdout
}

// InstallPackageResult reports what was installed and where
type InstallPackageResult struct {
	PackageName   string
	Version       string
	Namespace     string
	InstallDir    string
	ImportSpec    string
	FilesCopied   int
	FilesExcluded int
}

// InstallPackage clones the source repository, locates the package
// manifest inside it and copies the package into the data directory as
// @<namespace>/<name>:<version>.
func InstallPackage(opts InstallPackageOptions) (*InstallPackageResult, error) {
	logger := logging.GetLogger("commands.install")
	logger.Info().Str("source", opts.Source).Msg("Installing package")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	p := opts.Paths
	if p == nil {
		p = paths.New()
	}
	runner := opts.Runner
	if runner == nil {
		runner = gitrun.NewRunner("")
	}
	compiler := opts.Compiler
	if compiler == nil {
		compiler = typstbin.New("")
	}
	selector := opts.Selector
	if selector == nil {
		selector = ui.NewConsoleSelector()
	}

	fmt.Fprintf(out, "Attempting to install from: %s\n", opts.Source)

	desc, err := gitsource.Resolve(opts.Source)
	if err != nil {
		return nil, err
	}

	cloneDir, cleanup, err := gitrun.TempDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	fmt.Fprintf(out, "Cloning %s into %s...\n", desc.CloneURL, cloneDir)
	if err := runner.Clone(gitrun.CloneOptions{URL: desc.CloneURL, Ref: desc.Ref, Dir: cloneDir}); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "Clone successful.")

	packageSrc := filepath.Join(cloneDir, filepath.FromSlash(desc.PathInRepo))
	manifestPath := filepath.Join(packageSrc, manifest.Filename)
	if _, err := os.Stat(manifestPath); err != nil {
		fmt.Fprintf(out, "%s not found at %s. Searching recursively in %s...\n",
			manifest.Filename, manifestPath, packageSrc)
		manifestPath, err = locateManifest(cloneDir, packageSrc, selector, out)
		if err != nil {
			return nil, err
		}
	}
	packageSrc = filepath.Dir(manifestPath)

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(m); err != nil {
		return nil, err
	}

	if m.Package.Compiler != "" {
		current, err := typstbin.CheckRequirement(compiler, m.Package.Compiler)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Typst version check passed (required: %s, current: %s).\n",
			m.Package.Compiler, current)
	}

	namespace := layout.Namespace(desc.ProviderHost, desc.Owner)
	dest := layout.PackageDir(p.DataPackagesRoot(), namespace, m.Package.Name, m.Package.Version)

	if _, err := os.Stat(dest); err == nil {
		fmt.Fprintf(out, "Package %s v%s already installed at %s. Overwriting.\n",
			m.Package.Name, m.Package.Version, dest)
	}

	fmt.Fprintf(out, "Installing to: %s\n", dest)
	res, err := materialize.Materialize(materialize.Options{
		SourceDir:  packageSrc,
		DestDir:    dest,
		Excludes:   m.Package.Exclude,
		Namespace:  namespace,
		Name:       m.Package.Name,
		Version:    m.Package.Version,
		Entrypoint: m.Package.Entrypoint,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("package", m.Package.Name).
		Str("version", m.Package.Version).
		Str("namespace", namespace).
		Int("files_copied", res.FilesCopied).
		Msg("Package installed")

	return &InstallPackageResult{
		PackageName:   m.Package.Name,
		Version:       m.Package.Version,
		Namespace:     namespace,
		InstallDir:    dest,
		ImportSpec:    layout.ImportSpec(namespace, m.Package.Name, m.Package.Version),
		FilesCopied:   res.FilesCopied,
		FilesExcluded: res.FilesExcluded,
	}, nil
}

// locateManifest searches packageSrc recursively for manifests when the
// expected one is absent. With several candidates the user picks one;
// candidates are displayed relative to the clone root, matching how the
// repository was addressed.
func locateManifest(cloneDir, packageSrc string, selector ui.Selector, out io.Writer) (string, error) {
	candidates, err := manifest.Discover(packageSrc)
	if err != nil {
		return "", err
	}

	switch len(candidates) {
	case 0:
		return "", errors.Newf(errors.ErrManifestNotFound,
			"no %s found under %s", manifest.Filename, packageSrc)
	case 1:
		fmt.Fprintf(out, "Found %s at: %s\n", manifest.Filename, candidates[0])
		return candidates[0], nil
	}

	display := make([]string, len(candidates))
	for i, candidate := range candidates {
		rel, err := filepath.Rel(cloneDir, candidate)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInternal, "failed to relativize %s", candidate)
		}
		display[i] = rel
	}

	fmt.Fprintf(out, "\nMultiple %s files found. Please choose one to install:\n", manifest.Filename)
	choice, err := selector.Select(display)
	if err != nil {
		return "", err
	}
	if choice < 0 || choice >= len(candidates) {
		return "", errors.New(errors.ErrManifestAmbiguous, "invalid choice")
	}

	fmt.Fprintf(out, "Selected: %s\n", candidates[choice])
	return candidates[choice], nil
}

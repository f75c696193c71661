// Package build turns a local package source into a publishable
// package directory: it validates the manifest, enforces the compiler
// requirement, compiles the template when one is declared, and
// materializes the files under <output>/<name>/<version>.
package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/jassielof/typm/pkg/layout"
	"github.com/jassielof/typm/pkg/logging"
	"github.com/jassielof/typm/pkg/manifest"
	"github.com/jassielof/typm/pkg/materialize"
	"github.com/jassielof/typm/pkg/typstbin"
)

// BuildPackageOptions holds options for the build command
type BuildPackageOptions struct {
	// ManifestPath is a typst.toml file or a directory containing one
	ManifestPath string
	// OutputDir is the directory that receives <name>/<version>
	OutputDir string
	// Namespace is stamped into rewritten package imports
	Namespace string
	Compiler  typstbin.Compiler // Allow injecting a compiler for testing
	Out       io.Writer         // Progress output, defaults to os.Stdout
}

// BuildPackageResult reports what the build produced
type BuildPackageResult struct {
	PackageName   string
	Version       string
	Namespace     string
	OutputDir     string
	FilesCopied   int
	FilesExcluded int
}

// BuildPackage validates a package source and copies it into the output
// directory layout that Typst expects for local packages.
func BuildPackage(opts BuildPackageOptions) (*BuildPackageResult, error) {
	logger := logging.GetLogger("commands.build")
	logger.Info().
		Str("manifest", opts.ManifestPath).
		Str("output", opts.OutputDir).
		Str("namespace", opts.Namespace).
		Msg("Building package")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	compiler := opts.Compiler
	if compiler == nil {
		compiler = typstbin.New("")
	}

	manifestPath, err := manifest.ResolvePath(opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	manifestDir := filepath.Dir(manifestPath)

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

	if err := manifest.ValidateNameMatchesDir(m, manifestDir); err != nil {
		return nil, err
	}

	if m.HasTemplate() {
		fmt.Fprintf(out, "Compiling template: %s/%s\n", m.Template.Path, m.Template.Entrypoint)
		if err := compiler.CompileTemplate(manifestDir, m.Package.Name, m.Template.Path, m.Template.Entrypoint); err != nil {
			return nil, err
		}

		if m.Template.Thumbnail != "" {
			fmt.Fprintf(out, "Generating thumbnail: %s\n", m.Template.Thumbnail)
			if err := compiler.RenderThumbnail(manifestDir, m.Package.Name, m.Template.Path, m.Template.Entrypoint, m.Template.Thumbnail); err != nil {
				return nil, err
			}
		}
	}

	dest := layout.BuildDir(opts.OutputDir, m.Package.Name, m.Package.Version)

	// The output directory usually lives inside the package source, so
	// keep it out of the copy even when the manifest does not list it.
	excludes := m.Package.Exclude
	if outName := filepath.Base(opts.OutputDir); !slices.Contains(excludes, outName) {
		excludes = append(slices.Clone(excludes), outName)
	}

	fmt.Fprintf(out, "Copying files to: %s\n", dest)
	res, err := materialize.Materialize(materialize.Options{
		SourceDir:  manifestDir,
		DestDir:    dest,
		Excludes:   excludes,
		Namespace:  opts.Namespace,
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
		Int("files_copied", res.FilesCopied).
		Msg("Package built")

	return &BuildPackageResult{
		PackageName:   m.Package.Name,
		Version:       m.Package.Version,
		Namespace:     opts.Namespace,
		OutputDir:     dest,
		FilesCopied:   res.FilesCopied,
		FilesExcluded: res.FilesExcluded,
	}, nil
}

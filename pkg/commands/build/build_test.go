// TEST TYPE: Unit
// DEPENDENCIES: Package source fixtures, fake compiler (no real typst)
// PURPOSE: Verify the build command validates, compiles and materializes
// package sources into the output layout

package build_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jassielof/typm/pkg/commands/build"
	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/semver"
	"github.com/jassielof/typm/pkg/testutil"
)

func TestBuildPackage(t *testing.T) {
	pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
	pkg.AddFile(t, "lib/tables.typ", "#let table-of() = []\n")
	pkg.AddFile(t, "README.md", "# widgets\n")

	var out bytes.Buffer
	result, err := build.BuildPackage(build.BuildPackageOptions{
		ManifestPath: pkg.Dir,
		OutputDir:    filepath.Join(pkg.Root, "out"),
		Namespace:    "preview",
		Compiler:     &testutil.FakeCompiler{},
		Out:          &out,
	})
	require.NoError(t, err)

	assert.Equal(t, "widgets", result.PackageName)
	assert.Equal(t, "0.2.1", result.Version)
	assert.Equal(t, "preview", result.Namespace)
	assert.Equal(t, filepath.Join(pkg.Root, "out", "widgets", "0.2.1"), result.OutputDir)
	assert.Equal(t, 4, result.FilesCopied)
	assert.Equal(t, 0, result.FilesExcluded)

	for _, rel := range []string{"typst.toml", "main.typ", "lib/tables.typ", "README.md"} {
		assert.FileExists(t, filepath.Join(result.OutputDir, rel))
	}
	assert.Contains(t, out.String(), "Copying files to: "+result.OutputDir)
}

func TestBuildPackageAcceptsManifestFilePath(t *testing.T) {
	pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")

	result, err := build.BuildPackage(build.BuildPackageOptions{
		ManifestPath: filepath.Join(pkg.Dir, "typst.toml"),
		OutputDir:    filepath.Join(pkg.Root, "out"),
		Namespace:    "preview",
		Compiler:     &testutil.FakeCompiler{},
		Out:          &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesCopied)
}

func TestBuildPackageExcludesOutputDirByName(t *testing.T) {
	pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
	outputDir := filepath.Join(pkg.Dir, "out")

	opts := build.BuildPackageOptions{
		ManifestPath: pkg.Dir,
		OutputDir:    outputDir,
		Namespace:    "preview",
		Compiler:     &testutil.FakeCompiler{},
		Out:          &bytes.Buffer{},
	}

	first, err := build.BuildPackage(opts)
	require.NoError(t, err)
	assert.Equal(t, 2, first.FilesCopied)

	// A rebuild must not recurse into the previous build output.
	second, err := build.BuildPackage(opts)
	require.NoError(t, err)
	assert.Equal(t, 2, second.FilesCopied)
	assert.NoDirExists(t, filepath.Join(outputDir, "widgets", "0.2.1", "out"))
}

func TestBuildPackageHonorsManifestExcludes(t *testing.T) {
	pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
	pkg.SetManifest(t, `[package]
name = "widgets"
version = "0.2.1"
entrypoint = "main.typ"
exclude = ["*.md", "docs"]
`)
	pkg.AddFile(t, "NOTES.md", "notes\n")
	pkg.AddFile(t, "docs/guide.typ", "guide\n")

	result, err := build.BuildPackage(build.BuildPackageOptions{
		ManifestPath: pkg.Dir,
		OutputDir:    filepath.Join(pkg.Root, "out"),
		Namespace:    "preview",
		Compiler:     &testutil.FakeCompiler{},
		Out:          &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesCopied)
	assert.Equal(t, 2, result.FilesExcluded)
	assert.NoFileExists(t, filepath.Join(result.OutputDir, "NOTES.md"))
	assert.NoFileExists(t, filepath.Join(result.OutputDir, "docs", "guide.typ"))
}

func TestBuildPackageCompilerRequirement(t *testing.T) {
	t.Run("satisfied", func(t *testing.T) {
		pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
		pkg.SetManifest(t, `[package]
name = "widgets"
version = "0.2.1"
entrypoint = "main.typ"
compiler = ">=0.11.0"
`)
		compiler := &testutil.FakeCompiler{VersionResult: semver.Version{Major: 0, Minor: 12, Patch: 0}}

		var out bytes.Buffer
		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: pkg.Dir,
			OutputDir:    filepath.Join(pkg.Root, "out"),
			Namespace:    "preview",
			Compiler:     compiler,
			Out:          &out,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, compiler.VersionCalls)
		assert.Contains(t, out.String(),
			"Typst version check passed (required: >=0.11.0, current: 0.12.0).")
	})

	t.Run("unsatisfied", func(t *testing.T) {
		pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
		pkg.SetManifest(t, `[package]
name = "widgets"
version = "0.2.1"
entrypoint = "main.typ"
compiler = ">=0.13.0"
`)
		compiler := &testutil.FakeCompiler{VersionResult: semver.Version{Major: 0, Minor: 12, Patch: 0}}
		outputDir := filepath.Join(pkg.Root, "out")

		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: pkg.Dir,
			OutputDir:    outputDir,
			Namespace:    "preview",
			Compiler:     compiler,
			Out:          &bytes.Buffer{},
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConstraintUnsatisfied))
		assert.NoDirExists(t, outputDir)
	})

	t.Run("not probed without requirement", func(t *testing.T) {
		pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
		compiler := &testutil.FakeCompiler{}

		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: pkg.Dir,
			OutputDir:    filepath.Join(pkg.Root, "out"),
			Namespace:    "preview",
			Compiler:     compiler,
			Out:          &bytes.Buffer{},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, compiler.VersionCalls)
	})
}

func TestBuildPackageCompilesTemplate(t *testing.T) {
	pkg := testutil.SetupTestPackage(t, "widgets", "0.9.0")
	pkg.AddTemplate(t, "0.9.0")
	compiler := &testutil.FakeCompiler{}

	var out bytes.Buffer
	result, err := build.BuildPackage(build.BuildPackageOptions{
		ManifestPath: pkg.Dir,
		OutputDir:    filepath.Join(pkg.Root, "out"),
		Namespace:    "preview",
		Compiler:     compiler,
		Out:          &out,
	})
	require.NoError(t, err)

	require.Len(t, compiler.CompileCalls, 1)
	call := compiler.CompileCalls[0]
	assert.Equal(t, pkg.Dir, call.ManifestDir)
	assert.Equal(t, "widgets", call.PackageName)
	assert.Equal(t, "template", call.TemplatePath)
	assert.Equal(t, "main.typ", call.TemplateEntrypoint)

	require.Len(t, compiler.ThumbnailCalls, 1)
	assert.Equal(t, "thumbnail.png", compiler.ThumbnailCalls[0].ThumbnailPath)

	assert.Contains(t, out.String(), "Compiling template: template/main.typ")
	assert.Contains(t, out.String(), "Generating thumbnail: thumbnail.png")

	// Template imports of the package entrypoint point at the built
	// package spec after the copy.
	data, err := os.ReadFile(filepath.Join(result.OutputDir, "template", "main.typ"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `#import "@preview/widgets:0.9.0": render`)
}

func TestBuildPackageTemplateCompileFailureAborts(t *testing.T) {
	pkg := testutil.SetupTestPackage(t, "widgets", "0.9.0")
	pkg.AddTemplate(t, "0.9.0")
	compiler := &testutil.FakeCompiler{
		CompileErr: errors.New(errors.ErrExternalTool, "template compilation failed for widgets/template/main.typ"),
	}
	outputDir := filepath.Join(pkg.Root, "out")

	_, err := build.BuildPackage(build.BuildPackageOptions{
		ManifestPath: pkg.Dir,
		OutputDir:    outputDir,
		Namespace:    "preview",
		Compiler:     compiler,
		Out:          &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
	assert.NoDirExists(t, outputDir)
	assert.Empty(t, compiler.ThumbnailCalls)
}

func TestBuildPackageValidation(t *testing.T) {
	t.Run("name must match directory", func(t *testing.T) {
		pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
		pkg.SetManifest(t, "[package]\nname = \"gadgets\"\nversion = \"0.2.1\"\n")

		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: pkg.Dir,
			OutputDir:    filepath.Join(pkg.Root, "out"),
			Namespace:    "preview",
			Compiler:     &testutil.FakeCompiler{},
			Out:          &bytes.Buffer{},
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidManifest))
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("missing required fields", func(t *testing.T) {
		pkg := testutil.SetupTestPackage(t, "widgets", "0.2.1")
		pkg.SetManifest(t, "[package]\nname = \"widgets\"\n")

		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: pkg.Dir,
			OutputDir:    filepath.Join(pkg.Root, "out"),
			Namespace:    "preview",
			Compiler:     &testutil.FakeCompiler{},
			Out:          &bytes.Buffer{},
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidManifest))
	})

	t.Run("directory without manifest", func(t *testing.T) {
		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: t.TempDir(),
			OutputDir:    "out",
			Namespace:    "preview",
			Compiler:     &testutil.FakeCompiler{},
			Out:          &bytes.Buffer{},
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
	})

	t.Run("path does not exist", func(t *testing.T) {
		_, err := build.BuildPackage(build.BuildPackageOptions{
			ManifestPath: filepath.Join(t.TempDir(), "missing"),
			OutputDir:    "out",
			Namespace:    "preview",
			Compiler:     &testutil.FakeCompiler{},
			Out:          &bytes.Buffer{},
		})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

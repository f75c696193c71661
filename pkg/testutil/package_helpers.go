package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPackage is a package source tree laid out the way build expects:
// a project root containing a directory named after the package, with
// the manifest inside.
type TestPackage struct {
	Root string // project root (parent of the package directory)
	Name string
	Dir  string // package directory holding typst.toml
}

// SetupTestPackage creates a minimal valid package source with an
// entrypoint.
func SetupTestPackage(t *testing.T, name, version string) *TestPackage {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	tp := &TestPackage{Root: root, Name: name, Dir: dir}
	tp.SetManifest(t, fmt.Sprintf(
		"[package]\nname = %q\nversion = %q\nentrypoint = \"main.typ\"\n", name, version))
	tp.AddFile(t, "main.typ", "#let render() = []\n")
	return tp
}

// SetManifest overwrites the package's typst.toml.
func (tp *TestPackage) SetManifest(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(tp.Dir, "typst.toml"), []byte(content), 0o644))
}

// AddFile adds a file under the package directory, creating parents.
func (tp *TestPackage) AddFile(t *testing.T, relPath, content string) string {
	t.Helper()

	path := filepath.Join(tp.Dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// AddTemplate declares a template section in the manifest and creates
// its entrypoint importing the package entrypoint relatively.
func (tp *TestPackage) AddTemplate(t *testing.T, version string) {
	t.Helper()

	tp.SetManifest(t, fmt.Sprintf(`[package]
name = %q
version = %q
entrypoint = "main.typ"

[template]
path = "template"
entrypoint = "main.typ"
thumbnail = "thumbnail.png"
`, tp.Name, version))
	tp.AddFile(t, "template/main.typ", "#import \"../main.typ\": render\n#render()\n")
	tp.AddFile(t, "thumbnail.png", "PNG")
}

// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Isolated package-root environments for command tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jassielof/typm/pkg/paths"
)

// TestEnvironment isolates the package roots and home directory inside a
// temp directory so tests never touch the real user layout.
type TestEnvironment struct {
	HomeDir   string
	DataDir   string
	CacheDir  string
	ConfigDir string

	Paths paths.Paths

	t *testing.T
}

// NewTestEnvironment builds the isolated layout and points the path
// environment variables at it.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	env := &TestEnvironment{
		HomeDir:   filepath.Join(tempDir, "home"),
		DataDir:   filepath.Join(tempDir, "data", "typst"),
		CacheDir:  filepath.Join(tempDir, "cache", "typst"),
		ConfigDir: filepath.Join(tempDir, "config", "typm"),
		t:         t,
	}

	require.NoError(t, os.MkdirAll(env.HomeDir, 0o755))

	t.Setenv("HOME", env.HomeDir)
	t.Setenv(paths.EnvTypmDataDir, env.DataDir)
	t.Setenv(paths.EnvTypmCacheDir, env.CacheDir)
	t.Setenv(paths.EnvTypmConfigDir, env.ConfigDir)

	env.Paths = paths.New()
	return env
}

// InstallPackage plants an installed package directory under a packages
// root, for listing and overwrite scenarios.
func (env *TestEnvironment) InstallPackage(t *testing.T, packagesRoot, namespace, name, version string) string {
	t.Helper()

	dir := filepath.Join(packagesRoot, namespace, name, version)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "typst.toml"),
		[]byte("[package]\nname = \""+name+"\"\nversion = \""+version+"\"\n"),
		0o644))
	return dir
}
